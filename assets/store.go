package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store defines the interface for saving, retrieving, and deleting uploaded
// file assets. Assets are addressed by slash-separated paths relative to the
// storage root; the same paths are persisted on beneficiary records and used
// to serve the files back.
type Store interface {
	// Put stores data under the given namespace (a relative directory such as
	// "profiles" or "documents/B-1001") and returns the final relative path.
	// The caller is expected to disambiguate filename against pre-existing
	// blobs; an empty filename gets a generated one.
	Put(namespace, filename string, data io.Reader) (string, error)
	// Open retrieves a reader for an asset
	Open(relativePath string) (io.ReadCloser, os.FileInfo, error)
	// Delete removes an asset; a missing asset is not an error
	Delete(relativePath string) error
	// DeleteTree removes a namespace and everything under it; missing is not an error
	DeleteTree(namespace string) error
	// Exists reports whether an asset or namespace is present
	Exists(relativePath string) bool
	// ListTree returns the relative paths of every asset under a namespace
	ListTree(namespace string) ([]string, error)
}

// LocalStorage implements the Store interface using the local filesystem
type LocalStorage struct {
	basePath string // absolute path to the ASSET_STORAGE_PATH
}

// NewLocalStorage creates a new local filesystem store rooted at basePath
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory '%s': %w", absBasePath, err)
	}

	log.Printf("assets.store: Initialized LocalStorage at %s", absBasePath)
	return &LocalStorage{basePath: absBasePath}, nil
}

// resolve calculates the absolute path for a relative path and performs the
// security check keeping every access inside the storage root
func (ls *LocalStorage) resolve(relativePath string) (string, error) {
	cleanRelativePath := filepath.Clean(filepath.FromSlash(relativePath))

	fullPath := filepath.Join(ls.basePath, cleanRelativePath)

	absFullPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", relativePath, err)
	}

	if !strings.HasPrefix(absFullPath, ls.basePath) {
		return "", fmt.Errorf("invalid path: access denied for '%s'", relativePath)
	}

	return absFullPath, nil
}

// Put stores data under namespace/filename. The namespace directory is created
// on demand. An empty filename gets a generated UUID name.
func (ls *LocalStorage) Put(namespace, filename string, data io.Reader) (string, error) {
	targetDir, err := ls.resolve(namespace)
	if err != nil {
		return "", fmt.Errorf("invalid namespace '%s': %w", namespace, err)
	}
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create namespace directory '%s': %w", targetDir, err)
	}

	if filename == "" {
		filename = uuid.NewString()
	}
	// uploads supply client-controlled names; keep only the base component
	filename = filepath.Base(filepath.Clean(filename))

	fullSavePath := filepath.Join(targetDir, filename)

	outFile, err := os.Create(fullSavePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file '%s': %w", fullSavePath, err)
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, data)
	if err != nil {
		outFile.Close()
		os.Remove(fullSavePath)
		return "", fmt.Errorf("failed to write data to '%s': %w", fullSavePath, err)
	}

	relativePath, err := filepath.Rel(ls.basePath, fullSavePath)
	if err != nil {
		log.Printf("assets.store: Error calculating relative path for '%s' from '%s': %v", fullSavePath, ls.basePath, err)
		return "", fmt.Errorf("internal error calculating relative path: %w", err)
	}

	log.Printf("assets.store: Saved asset to %s", fullSavePath)
	return filepath.ToSlash(relativePath), nil
}

func (ls *LocalStorage) Open(relativePath string) (io.ReadCloser, os.FileInfo, error) {
	fullPath, err := ls.resolve(relativePath)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("asset not found at '%s': %w", relativePath, err)
		}
		return nil, nil, fmt.Errorf("failed to open asset '%s': %w", relativePath, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to stat asset '%s': %w", relativePath, err)
	}

	return file, info, nil
}

// Delete removes an asset file
func (ls *LocalStorage) Delete(relativePath string) error {
	fullPath, err := ls.resolve(relativePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // If resolve determines it doesn't exist, treat as success
		}
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) { // Ignore "not exist" errors
		return fmt.Errorf("failed to delete asset '%s': %w", relativePath, err)
	}
	if err == nil {
		log.Printf("assets.store: Deleted asset %s", fullPath)
	}
	return nil
}

// DeleteTree removes a namespace directory and everything under it
func (ls *LocalStorage) DeleteTree(namespace string) error {
	fullPath, err := ls.resolve(namespace)
	if err != nil {
		return err
	}
	if fullPath == ls.basePath {
		return fmt.Errorf("refusing to delete storage root via namespace '%s'", namespace)
	}

	if err := os.RemoveAll(fullPath); err != nil {
		return fmt.Errorf("failed to delete namespace '%s': %w", namespace, err)
	}
	log.Printf("assets.store: Deleted namespace %s", fullPath)
	return nil
}

// Exists reports whether the given relative path is present in the store
func (ls *LocalStorage) Exists(relativePath string) bool {
	fullPath, err := ls.resolve(relativePath)
	if err != nil {
		return false
	}
	_, err = os.Stat(fullPath)
	return err == nil
}

// ListTree walks a namespace and returns the relative paths of every regular
// file under it. A missing namespace yields an empty listing.
func (ls *LocalStorage) ListTree(namespace string) ([]string, error) {
	rootPath, err := ls.resolve(namespace)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(rootPath); os.IsNotExist(err) {
		return nil, nil
	}

	var paths []string
	err = filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(ls.basePath, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list namespace '%s': %w", namespace, err)
	}
	return paths, nil
}
