package services

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"path"
	"path/filepath"
	"time"

	"github.com/mensah-dev/beneficiarysysbackend/assets"
	"github.com/mensah-dev/beneficiarysysbackend/config"
	"github.com/mensah-dev/beneficiarysysbackend/models"
	"github.com/mensah-dev/beneficiarysysbackend/repository"
	"github.com/mensah-dev/beneficiarysysbackend/validation"
	"gorm.io/gorm"
)

// Upload is one submitted file: original filename, declared size, and the
// buffered payload.
type Upload struct {
	OriginalName string
	Size         int64
	Content      []byte
}

// scalarColumns are the beneficiary columns always written on update. Asset
// columns are appended only when a new file was uploaded, so the repository's
// partial update leaves the stored values alone otherwise.
var scalarColumns = []string{
	"first_name", "last_name", "beneficiary_number", "date_of_birth",
	"gender", "nationality", "address", "health_background",
	"father_name", "father_contact", "mother_name", "mother_contact",
	"guardian_name", "guardian_contact", "occupation", "emergency_contact",
}

// BeneficiaryService keeps the beneficiary row and its stored file assets
// consistent across create, update and delete. It is the only component that
// touches both the asset store and the repository.
type BeneficiaryService struct {
	repo  repository.BeneficiaryRepositoryInterface
	store assets.Store
	cfg   config.Config
}

// NewBeneficiaryService creates a new instance of BeneficiaryService
func NewBeneficiaryService(repo repository.BeneficiaryRepositoryInterface, store assets.Store, cfg config.Config) *BeneficiaryService {
	return &BeneficiaryService{repo: repo, store: store, cfg: cfg}
}

// timestampedName prefixes the original filename with the current Unix time
// so re-uploads of the same file never collide with earlier blobs.
func timestampedName(originalName string) string {
	base := filepath.Base(filepath.Clean(originalName))
	return fmt.Sprintf("%d_%s", time.Now().Unix(), base)
}

func (s *BeneficiaryService) documentsNamespace(number string) string {
	return path.Join(s.cfg.DocumentsSubDir, number)
}

// validate runs every field rule plus the file constraints, aggregating all
// violations so the caller can surface them together.
func (s *BeneficiaryService) validate(in *validation.BeneficiaryInput, excludeID int64, profileImage *Upload, documents []Upload) error {
	verr, err := validation.ValidateBeneficiary(in, s.repo, excludeID)
	if err != nil {
		return &PersistenceError{Err: err}
	}

	if profileImage != nil {
		if msg := validation.CheckProfileImage(profileImage.OriginalName, profileImage.Size, profileImage.Content, s.cfg.MaxProfileImageBytes); msg != "" {
			verr = verr.Add("profile_image", msg)
		}
	}
	for i, doc := range documents {
		if msg := validation.CheckDocument(doc.OriginalName, doc.Size, s.cfg.MaxDocumentBytes); msg != "" {
			verr = verr.Add(fmt.Sprintf("supporting_documents.%d", i), msg)
		}
	}

	if verr != nil {
		return verr
	}
	return nil
}

func recordFromInput(in *validation.BeneficiaryInput) *models.Beneficiary {
	return &models.Beneficiary{
		FirstName:                in.FirstName,
		LastName:                 in.LastName,
		BeneficiaryNumber:        in.BeneficiaryNumber,
		DateOfBirth:              in.ParsedDateOfBirth(),
		Gender:                   in.Gender,
		Nationality:              in.Nationality,
		Address:                  in.Address,
		HealthBackground:         in.HealthBackground,
		FatherName:               in.FatherName,
		FatherContact:            in.FatherContact,
		MotherName:               in.MotherName,
		MotherContact:            in.MotherContact,
		GuardianName:             in.GuardianName,
		GuardianContact:          in.GuardianContact,
		Occupation:               in.Occupation,
		EmergencyContact:         in.EmergencyContact,
		SupportingDocumentsPaths: []string{},
		SupportingDocumentsNames: []string{},
	}
}

// discardStored best-effort removes blobs written earlier in a request that
// has since failed, so an aborted create leaves no assets behind.
func (s *BeneficiaryService) discardStored(number string, paths []string) {
	for _, p := range paths {
		if err := s.store.Delete(p); err != nil {
			log.Printf("beneficiary service: failed to discard blob %s for %s after aborted request: %v", p, number, err)
		}
	}
}

// Create validates the submission, stores any uploaded assets, persists the
// record, and returns it. When a later step fails, blobs already written for
// this request are removed again before the error is surfaced.
func (s *BeneficiaryService) Create(in *validation.BeneficiaryInput, profileImage *Upload, documents []Upload) (*models.Beneficiary, error) {
	if err := s.validate(in, 0, profileImage, documents); err != nil {
		return nil, err
	}

	record := recordFromInput(in)
	var storedPaths []string

	if profileImage != nil {
		storedPath, err := s.store.Put(s.cfg.ProfilesSubDir, timestampedName(profileImage.OriginalName), bytes.NewReader(profileImage.Content))
		if err != nil {
			return nil, &AssetStoreError{Op: "put", Path: s.cfg.ProfilesSubDir + "/" + profileImage.OriginalName, Err: err}
		}
		originalName := filepath.Base(profileImage.OriginalName)
		record.ProfileImagePath = &storedPath
		record.ProfileImageOriginalName = &originalName
		storedPaths = append(storedPaths, storedPath)
	}

	namespace := s.documentsNamespace(in.BeneficiaryNumber)
	for _, doc := range documents {
		// the parallel path/name lists keep the submission order
		storedPath, err := s.store.Put(namespace, timestampedName(doc.OriginalName), bytes.NewReader(doc.Content))
		if err != nil {
			s.discardStored(in.BeneficiaryNumber, storedPaths)
			return nil, &AssetStoreError{Op: "put", Path: namespace + "/" + doc.OriginalName, Err: err}
		}
		record.SupportingDocumentsPaths = append(record.SupportingDocumentsPaths, storedPath)
		record.SupportingDocumentsNames = append(record.SupportingDocumentsNames, filepath.Base(doc.OriginalName))
		storedPaths = append(storedPaths, storedPath)
	}

	if err := s.repo.Create(record); err != nil {
		s.discardStored(in.BeneficiaryNumber, storedPaths)
		if errors.Is(err, repository.ErrDuplicateNumber) {
			return nil, err
		}
		return nil, &PersistenceError{Err: err}
	}

	log.Printf("beneficiary service: created beneficiary %d (%s)", record.ID, record.BeneficiaryNumber)
	return record, nil
}

// Update validates the submission and persists the changed fields. A new
// profile image replaces the old blob; a non-empty document list wholesale
// replaces the existing collection. When neither is supplied, the stored
// asset fields are left untouched.
func (s *BeneficiaryService) Update(id int64, in *validation.BeneficiaryInput, profileImage *Upload, documents []Upload) (*models.Beneficiary, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Err: err}
	}

	if err := s.validate(in, id, profileImage, documents); err != nil {
		return nil, err
	}

	record := recordFromInput(in)
	columns := append([]string{}, scalarColumns...)

	if profileImage != nil {
		if existing.ProfileImagePath != nil {
			// a blob that is already gone must not block the update
			if err := s.store.Delete(*existing.ProfileImagePath); err != nil {
				log.Printf("beneficiary service: failed to delete old profile image %s of beneficiary %d: %v", *existing.ProfileImagePath, id, err)
			}
		}
		storedPath, err := s.store.Put(s.cfg.ProfilesSubDir, timestampedName(profileImage.OriginalName), bytes.NewReader(profileImage.Content))
		if err != nil {
			return nil, &AssetStoreError{Op: "put", Path: s.cfg.ProfilesSubDir + "/" + profileImage.OriginalName, Err: err}
		}
		originalName := filepath.Base(profileImage.OriginalName)
		record.ProfileImagePath = &storedPath
		record.ProfileImageOriginalName = &originalName
		columns = append(columns, "profile_image_path", "profile_image_original_name")
	}

	if len(documents) > 0 {
		// replacement is all-or-nothing for the whole collection
		for _, oldPath := range existing.SupportingDocumentsPaths {
			if err := s.store.Delete(oldPath); err != nil {
				log.Printf("beneficiary service: failed to delete old document %s of beneficiary %d: %v", oldPath, id, err)
			}
		}

		namespace := s.documentsNamespace(existing.BeneficiaryNumber)
		newPaths := make([]string, 0, len(documents))
		newNames := make([]string, 0, len(documents))
		for _, doc := range documents {
			storedPath, err := s.store.Put(namespace, timestampedName(doc.OriginalName), bytes.NewReader(doc.Content))
			if err != nil {
				s.discardStored(existing.BeneficiaryNumber, newPaths)
				return nil, &AssetStoreError{Op: "put", Path: namespace + "/" + doc.OriginalName, Err: err}
			}
			newPaths = append(newPaths, storedPath)
			newNames = append(newNames, filepath.Base(doc.OriginalName))
		}
		record.SupportingDocumentsPaths = newPaths
		record.SupportingDocumentsNames = newNames
		columns = append(columns, "supporting_documents_paths", "supporting_documents_names")
	}

	updated, err := s.repo.Update(id, record, columns)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		if errors.Is(err, repository.ErrDuplicateNumber) {
			// storage may now be ahead of the database; a retry corrects it
			log.Printf("beneficiary service: update of beneficiary %d failed on duplicate number %s after asset writes", id, record.BeneficiaryNumber)
			return nil, err
		}
		return nil, &PersistenceError{Err: err}
	}

	log.Printf("beneficiary service: updated beneficiary %d (%s)", id, updated.BeneficiaryNumber)
	return updated, nil
}

// Delete removes the record, its profile image blob, and the beneficiary's
// whole document namespace. Blob cleanup failures are logged and do not block
// the row deletion.
func (s *BeneficiaryService) Delete(id int64) error {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return &PersistenceError{Err: err}
	}

	if record.ProfileImagePath != nil {
		if err := s.store.Delete(*record.ProfileImagePath); err != nil {
			log.Printf("beneficiary service: failed to delete profile image %s of beneficiary %d: %v", *record.ProfileImagePath, id, err)
		}
	}

	namespace := s.documentsNamespace(record.BeneficiaryNumber)
	if err := s.store.DeleteTree(namespace); err != nil {
		log.Printf("beneficiary service: failed to delete document namespace %s of beneficiary %d: %v", namespace, id, err)
	}

	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		// assets are gone but the row survived; needs manual reconciliation
		log.Printf("beneficiary service: row delete failed after asset cleanup for beneficiary %d (%s): %v", id, record.BeneficiaryNumber, err)
		return &PersistenceError{Err: err}
	}

	log.Printf("beneficiary service: deleted beneficiary %d (%s)", id, record.BeneficiaryNumber)
	return nil
}

// Get retrieves a single record by id
func (s *BeneficiaryService) Get(id int64) (*models.Beneficiary, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Err: err}
	}
	return record, nil
}

// Search lists records matching the free-text query, newest first
func (s *BeneficiaryService) Search(query string, page, pageSize int) ([]models.Beneficiary, int64, error) {
	if pageSize <= 0 {
		pageSize = s.cfg.DefaultPageSize
	}
	records, total, err := s.repo.Search(query, page, pageSize)
	if err != nil {
		return nil, 0, &PersistenceError{Err: err}
	}
	return records, total, nil
}
