package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultProfilesSubDir  = "profiles"
	DefaultDocumentsSubDir = "documents"
)

const (
	defaultMaxProfileImageKB = 2048
	defaultMaxDocumentKB     = 5120
	defaultPageSize          = 10
	defaultJWTExpiryHours    = 24
)

type Config struct {
	// database path
	DatabasePath string

	// asset storage configuration
	AssetStoragePath string // primary root for uploaded assets (profile images, documents)
	ProfilesSubDir   string // namespace for profile images, relative to AssetStoragePath
	DocumentsSubDir  string // namespace prefix for supporting documents

	// upload limits
	MaxProfileImageBytes int64
	MaxDocumentBytes     int64

	// listing settings
	DefaultPageSize int

	// auth settings
	JWTSecret      string
	JWTExpiryHours int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "beneficiaries.db")

	assetStorage := getEnvOrDefault("ASSET_STORAGE_PATH", filepath.Join(".", "asset_storage"))
	absAssetStorage, err := filepath.Abs(assetStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for asset storage '%s': %w", assetStorage, err)
	}

	profilesSubDir := getEnvOrDefault("PROFILES_SUBDIR", DefaultProfilesSubDir)
	documentsSubDir := getEnvOrDefault("DOCUMENTS_SUBDIR", DefaultDocumentsSubDir)

	maxProfileKB := getEnvIntOrDefault("MAX_PROFILE_IMAGE_KB", defaultMaxProfileImageKB)
	maxDocumentKB := getEnvIntOrDefault("MAX_DOCUMENT_KB", defaultMaxDocumentKB)

	pageSize := getEnvIntOrDefault("DEFAULT_PAGE_SIZE", defaultPageSize)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Printf("Warning: JWT_SECRET not set, using an insecure development default")
		jwtSecret = "insecure-development-secret"
	}
	jwtExpiry := getEnvIntOrDefault("JWT_EXPIRY_HOURS", defaultJWTExpiryHours)

	cfg := Config{
		DatabasePath:         dbPath,
		AssetStoragePath:     absAssetStorage,
		ProfilesSubDir:       profilesSubDir,
		DocumentsSubDir:      documentsSubDir,
		MaxProfileImageBytes: int64(maxProfileKB) * 1024,
		MaxDocumentBytes:     int64(maxDocumentKB) * 1024,
		DefaultPageSize:      pageSize,
		JWTSecret:            jwtSecret,
		JWTExpiryHours:       jwtExpiry,
	}

	return cfg, nil
}
