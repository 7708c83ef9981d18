package models

import "time"

// Gender values accepted for a beneficiary record.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// Beneficiary represents one registered individual together with the file
// assets attached to their record. It corresponds to the 'beneficiaries' table.
//
// SupportingDocumentsPaths and SupportingDocumentsNames are parallel lists:
// entry i of one always corresponds to entry i of the other, and the two are
// only ever written together.
type Beneficiary struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName         string    `gorm:"not null" json:"first_name"`
	LastName          string    `gorm:"not null" json:"last_name"`
	BeneficiaryNumber string    `gorm:"not null;uniqueIndex" json:"beneficiary_number"`
	DateOfBirth       time.Time `gorm:"not null" json:"date_of_birth"`
	Gender            string    `gorm:"not null" json:"gender"`
	Nationality       string    `gorm:"not null" json:"nationality"`
	Address           string    `gorm:"not null" json:"address"`
	HealthBackground  *string   `gorm:"" json:"health_background,omitempty"` // Nullable, unbounded text

	FatherName       *string `gorm:"" json:"father_name,omitempty"`
	FatherContact    *string `gorm:"" json:"father_contact,omitempty"`
	MotherName       *string `gorm:"" json:"mother_name,omitempty"`
	MotherContact    *string `gorm:"" json:"mother_contact,omitempty"`
	GuardianName     *string `gorm:"" json:"guardian_name,omitempty"`
	GuardianContact  *string `gorm:"" json:"guardian_contact,omitempty"`
	Occupation       *string `gorm:"" json:"occupation,omitempty"`
	EmergencyContact *string `gorm:"" json:"emergency_contact,omitempty"`

	ProfileImagePath         *string  `gorm:"" json:"profile_image_path,omitempty"`
	ProfileImageOriginalName *string  `gorm:"" json:"profile_image_original_name,omitempty"`
	SupportingDocumentsPaths []string `gorm:"serializer:json" json:"supporting_documents_paths"`
	SupportingDocumentsNames []string `gorm:"serializer:json" json:"supporting_documents_names"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (Beneficiary) TableName() string {
	return "beneficiaries"
}
