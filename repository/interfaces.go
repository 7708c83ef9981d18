package repository

import (
	"time"

	"github.com/mensah-dev/beneficiarysysbackend/models"
)

// BeneficiaryRepositoryInterface defines the methods for beneficiary data operations
type BeneficiaryRepositoryInterface interface {
	Create(beneficiary *models.Beneficiary) error
	GetByID(id int64) (*models.Beneficiary, error)
	// Update changes only the named columns of the record; omitted columns
	// retain their prior values (partial update semantics).
	Update(id int64, beneficiary *models.Beneficiary, columns []string) (*models.Beneficiary, error)
	Delete(id int64) error
	// Search matches the query case-insensitively against first name, last
	// name, beneficiary number and address, newest records first.
	Search(query string, page, pageSize int) ([]models.Beneficiary, int64, error)
	ListRecent(limit int) ([]models.Beneficiary, error)
	ExistsByNumber(number string, excludeID int64) (bool, error)
	// ListReferencedAssetPaths returns every blob path referenced by any
	// record, used to report orphaned blobs in the asset store.
	ListReferencedAssetPaths() ([]string, error)
}

// EventRepositoryInterface defines the methods for event data operations
type EventRepositoryInterface interface {
	Create(event *models.Event) error
	GetByID(id int64) (*models.Event, error)
	ListAll() ([]models.Event, error)
	ListRecent(limit int) ([]models.Event, error)
	CountUpcoming(from time.Time, within time.Duration) (int64, error)
	Update(event *models.Event) error
	UpdateStatus(id int64, status string) error
	Delete(id int64) error
}

// UserRepositoryInterface defines the methods for user data operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Count() (int64, error)
}
