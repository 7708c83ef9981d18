package validation

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// DateLayout is the calendar-date format accepted for date_of_birth.
const DateLayout = "2006-01-02"

var supportedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// BeneficiaryInput is the validated field set submitted when registering or
// updating a beneficiary. Optional fields are nil when absent.
type BeneficiaryInput struct {
	FirstName         string `json:"first_name" validate:"required,max=255,alpha_space"`
	LastName          string `json:"last_name" validate:"required,max=255,alpha_space"`
	BeneficiaryNumber string `json:"beneficiary_number" validate:"required,max=255"`
	DateOfBirth       string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender            string `json:"gender" validate:"required,oneof=Male Female"`
	Nationality       string `json:"nationality" validate:"required,max=255"`
	Address           string `json:"address" validate:"required,max=255"`

	FatherName       *string `json:"father_name" validate:"omitempty,max=255,alpha_space"`
	FatherContact    *string `json:"father_contact" validate:"omitempty,max=255"`
	MotherName       *string `json:"mother_name" validate:"omitempty,max=255,alpha_space"`
	MotherContact    *string `json:"mother_contact" validate:"omitempty,max=255"`
	GuardianName     *string `json:"guardian_name" validate:"omitempty,max=255,alpha_space"`
	GuardianContact  *string `json:"guardian_contact" validate:"omitempty,max=255"`
	Occupation       *string `json:"occupation" validate:"omitempty,max=255"`
	HealthBackground *string `json:"health_background"`
	EmergencyContact *string `json:"emergency_contact" validate:"omitempty,max=255"`
}

// NumberChecker reports whether a beneficiary number is already taken by a
// record other than excludeID. Satisfied by the beneficiary repository.
type NumberChecker interface {
	ExistsByNumber(number string, excludeID int64) (bool, error)
}

// normalize trims name-like inputs before validation and drops optional
// fields that are empty after trimming.
func (in *BeneficiaryInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.BeneficiaryNumber = strings.TrimSpace(in.BeneficiaryNumber)
	in.FatherName = trimOptional(in.FatherName)
	in.MotherName = trimOptional(in.MotherName)
	in.GuardianName = trimOptional(in.GuardianName)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ParsedDateOfBirth returns the date_of_birth as a calendar date. It must only
// be called after a successful ValidateBeneficiary.
func (in *BeneficiaryInput) ParsedDateOfBirth() time.Time {
	t, _ := time.Parse(DateLayout, in.DateOfBirth)
	return t
}

// ValidateBeneficiary checks every field rule and the beneficiary-number
// uniqueness (excluding excludeID, 0 on create). The first return value lists
// all violated fields; the second reports a persistence failure during the
// uniqueness lookup.
func ValidateBeneficiary(in *BeneficiaryInput, numbers NumberChecker, excludeID int64) (*Error, error) {
	in.normalize()

	verr := collectStructErrors(nil, Validate.Struct(in))

	if in.BeneficiaryNumber != "" {
		if _, clash := fieldViolated(verr, "beneficiary_number"); !clash {
			taken, err := numbers.ExistsByNumber(in.BeneficiaryNumber, excludeID)
			if err != nil {
				return nil, fmt.Errorf("failed to check beneficiary number uniqueness: %w", err)
			}
			if taken {
				verr = verr.Add("beneficiary_number", "This beneficiary number is already in use")
			}
		}
	}

	return verr, nil
}

func fieldViolated(verr *Error, field string) ([]string, bool) {
	if verr == nil {
		return nil, false
	}
	msgs, ok := verr.Fields[field]
	return msgs, ok
}

// CheckProfileImage validates an uploaded profile image: it must carry an
// image extension, decode as a raster image, and stay within maxBytes.
// It returns an empty string when the upload is acceptable.
func CheckProfileImage(filename string, size int64, content []byte, maxBytes int64) string {
	if size > maxBytes {
		return fmt.Sprintf("Profile image may not be larger than %d kilobytes", maxBytes/1024)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !supportedImageExtensions[ext] {
		return "Profile image must be an image file"
	}
	if _, err := imaging.Decode(bytes.NewReader(content)); err != nil {
		return "Profile image must be an image file"
	}
	return ""
}

// CheckDocument validates an uploaded supporting document. No type allow-list
// is enforced, only the size limit.
func CheckDocument(filename string, size int64, maxBytes int64) string {
	if size > maxBytes {
		return fmt.Sprintf("Document %s may not be larger than %d kilobytes", filename, maxBytes/1024)
	}
	return ""
}
