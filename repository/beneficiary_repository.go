package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mensah-dev/beneficiarysysbackend/models"
	"gorm.io/gorm"
)

// ErrDuplicateNumber is returned when a create or update would violate the
// unique index on beneficiary_number. The index, not the application-level
// pre-check, is what guarantees exactly one of two concurrent creates wins.
var ErrDuplicateNumber = errors.New("beneficiary number already exists")

// BeneficiaryRepository handles database operations for Beneficiary entities
type BeneficiaryRepository struct {
	DB *gorm.DB
}

// NewBeneficiaryRepository creates a new instance of BeneficiaryRepository
func NewBeneficiaryRepository(db *gorm.DB) *BeneficiaryRepository {
	return &BeneficiaryRepository{DB: db}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Create creates a new beneficiary record in the database
func (r *BeneficiaryRepository) Create(beneficiary *models.Beneficiary) error {
	if beneficiary.SupportingDocumentsPaths == nil {
		beneficiary.SupportingDocumentsPaths = []string{}
	}
	if beneficiary.SupportingDocumentsNames == nil {
		beneficiary.SupportingDocumentsNames = []string{}
	}

	err := r.DB.Create(beneficiary).Error
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateNumber
		}
		return fmt.Errorf("failed to create beneficiary %s: %w", beneficiary.BeneficiaryNumber, err)
	}
	return nil
}

// GetByID retrieves a beneficiary by their ID
func (r *BeneficiaryRepository) GetByID(id int64) (*models.Beneficiary, error) {
	var beneficiary models.Beneficiary
	err := r.DB.First(&beneficiary, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get beneficiary by ID %d: %w", id, err)
	}
	return &beneficiary, nil
}

// Update changes only the named columns of an existing record and returns the
// updated row. Columns not listed keep their prior values; the reconciler
// relies on this to avoid clobbering asset fields when no new file was
// uploaded.
func (r *BeneficiaryRepository) Update(id int64, beneficiary *models.Beneficiary, columns []string) (*models.Beneficiary, error) {
	var existing models.Beneficiary
	if err := r.DB.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load beneficiary ID %d for update: %w", id, err)
	}

	err := r.DB.Model(&models.Beneficiary{ID: id}).Select(columns).Updates(beneficiary).Error
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateNumber
		}
		return nil, fmt.Errorf("failed to update beneficiary ID %d: %w", id, err)
	}

	return r.GetByID(id)
}

// Delete removes a beneficiary by their ID
func (r *BeneficiaryRepository) Delete(id int64) error {
	result := r.DB.Delete(&models.Beneficiary{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete beneficiary ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Search retrieves beneficiaries matching the free-text query, newest first,
// paginated. An empty query lists everything.
func (r *BeneficiaryRepository) Search(query string, page, pageSize int) ([]models.Beneficiary, int64, error) {
	if page < 1 {
		page = 1
	}

	tx := r.DB.Model(&models.Beneficiary{})
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		tx = tx.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(beneficiary_number) LIKE ? OR LOWER(address) LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count beneficiaries for '%s': %w", query, err)
	}

	var beneficiaries []models.Beneficiary
	err := tx.Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&beneficiaries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search beneficiaries for '%s': %w", query, err)
	}
	return beneficiaries, total, nil
}

// ListRecent retrieves the most recently registered beneficiaries
func (r *BeneficiaryRepository) ListRecent(limit int) ([]models.Beneficiary, error) {
	var beneficiaries []models.Beneficiary
	err := r.DB.Order("created_at DESC, id DESC").Limit(limit).Find(&beneficiaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent beneficiaries: %w", err)
	}
	return beneficiaries, nil
}

// ExistsByNumber reports whether another record (excluding excludeID) already
// uses the given beneficiary number
func (r *BeneficiaryRepository) ExistsByNumber(number string, excludeID int64) (bool, error) {
	var count int64
	tx := r.DB.Model(&models.Beneficiary{}).Where("beneficiary_number = ?", number)
	if excludeID != 0 {
		tx = tx.Where("id <> ?", excludeID)
	}
	if err := tx.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check beneficiary number '%s': %w", number, err)
	}
	return count > 0, nil
}

// ListReferencedAssetPaths collects every blob path any record points at
func (r *BeneficiaryRepository) ListReferencedAssetPaths() ([]string, error) {
	var beneficiaries []models.Beneficiary
	err := r.DB.Select("profile_image_path", "supporting_documents_paths").Find(&beneficiaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list referenced asset paths: %w", err)
	}

	var paths []string
	for _, b := range beneficiaries {
		if b.ProfileImagePath != nil && *b.ProfileImagePath != "" {
			paths = append(paths, *b.ProfileImagePath)
		}
		paths = append(paths, b.SupportingDocumentsPaths...)
	}
	return paths, nil
}
