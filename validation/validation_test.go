package validation

import (
	"bytes"
	"image"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNumberChecker struct {
	taken map[string]bool
	err   error
}

func (f *fakeNumberChecker) ExistsByNumber(number string, excludeID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.taken[number], nil
}

func validInput() *BeneficiaryInput {
	return &BeneficiaryInput{
		FirstName:         "Ama",
		LastName:          "Mensah",
		BeneficiaryNumber: "B-1001",
		DateOfBirth:       "2015-06-01",
		Gender:            "Female",
		Nationality:       "Ghanaian",
		Address:           "Accra",
	}
}

func TestValidateBeneficiaryAcceptsValidInput(t *testing.T) {
	verr, err := ValidateBeneficiary(validInput(), &fakeNumberChecker{}, 0)
	require.NoError(t, err)
	assert.Nil(t, verr)
}

func TestValidateBeneficiaryRejectsDigitsInNames(t *testing.T) {
	in := validInput()
	in.FirstName = "Ama2"

	verr, err := ValidateBeneficiary(in, &fakeNumberChecker{}, 0)
	require.NoError(t, err)
	require.NotNil(t, verr)
	assert.Contains(t, verr.Fields["first_name"], "first_name should only contain letters and spaces")
}

func TestValidateBeneficiaryRejectsUnknownGender(t *testing.T) {
	in := validInput()
	in.Gender = "Other"

	verr, err := ValidateBeneficiary(in, &fakeNumberChecker{}, 0)
	require.NoError(t, err)
	require.NotNil(t, verr)
	assert.NotEmpty(t, verr.Fields["gender"])
}

func TestValidateBeneficiaryRejectsMalformedDate(t *testing.T) {
	in := validInput()
	in.DateOfBirth = "01/06/2015"

	verr, err := ValidateBeneficiary(in, &fakeNumberChecker{}, 0)
	require.NoError(t, err)
	require.NotNil(t, verr)
	assert.Contains(t, verr.Fields["date_of_birth"], "date_of_birth must be a valid date")
}

func TestValidateBeneficiaryAggregatesAllViolations(t *testing.T) {
	in := &BeneficiaryInput{}

	verr, err := ValidateBeneficiary(in, &fakeNumberChecker{}, 0)
	require.NoError(t, err)
	require.NotNil(t, verr)
	for _, field := range []string{"first_name", "last_name", "beneficiary_number", "date_of_birth", "gender", "nationality", "address"} {
		assert.NotEmpty(t, verr.Fields[field], "expected violation for %s", field)
	}
}

func TestValidateBeneficiaryTrimsNameFields(t *testing.T) {
	in := validInput()
	in.FirstName = "  Ama  "
	father := "  Kwame Mensah  "
	in.FatherName = &father
	empty := "   "
	in.MotherName = &empty

	verr, err := ValidateBeneficiary(in, &fakeNumberChecker{}, 0)
	require.NoError(t, err)
	assert.Nil(t, verr)
	assert.Equal(t, "Ama", in.FirstName)
	require.NotNil(t, in.FatherName)
	assert.Equal(t, "Kwame Mensah", *in.FatherName)
	assert.Nil(t, in.MotherName)
}

func TestValidateBeneficiaryReportsTakenNumber(t *testing.T) {
	checker := &fakeNumberChecker{taken: map[string]bool{"B-1001": true}}

	verr, err := ValidateBeneficiary(validInput(), checker, 0)
	require.NoError(t, err)
	require.NotNil(t, verr)
	assert.Contains(t, verr.Fields["beneficiary_number"], "This beneficiary number is already in use")
}

func TestValidateBeneficiarySkipsUniquenessWhenNumberAlreadyInvalid(t *testing.T) {
	in := validInput()
	in.BeneficiaryNumber = ""

	checker := &fakeNumberChecker{err: assert.AnError}
	verr, err := ValidateBeneficiary(in, checker, 0)
	require.NoError(t, err)
	require.NotNil(t, verr)
	assert.NotEmpty(t, verr.Fields["beneficiary_number"])
}

func TestErrorAddIsNilSafe(t *testing.T) {
	var verr *Error
	verr = verr.Add("field", "message")
	require.NotNil(t, verr)
	assert.Equal(t, []string{"message"}, verr.Fields["field"])
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func TestCheckProfileImageAcceptsSmallPNG(t *testing.T) {
	content := pngBytes(t)
	msg := CheckProfileImage("photo.png", int64(len(content)), content, 2048*1024)
	assert.Empty(t, msg)
}

func TestCheckProfileImageRejectsOversizedUpload(t *testing.T) {
	content := pngBytes(t)
	msg := CheckProfileImage("photo.png", 3*1024*1024, content, 2048*1024)
	assert.Equal(t, "Profile image may not be larger than 2048 kilobytes", msg)
}

func TestCheckProfileImageRejectsUnsupportedExtension(t *testing.T) {
	content := pngBytes(t)
	msg := CheckProfileImage("photo.pdf", int64(len(content)), content, 2048*1024)
	assert.Equal(t, "Profile image must be an image file", msg)
}

func TestCheckProfileImageRejectsNonImageContent(t *testing.T) {
	content := []byte("definitely not an image")
	msg := CheckProfileImage("photo.png", int64(len(content)), content, 2048*1024)
	assert.Equal(t, "Profile image must be an image file", msg)
}

func TestCheckDocumentEnforcesOnlySizeLimit(t *testing.T) {
	assert.Empty(t, CheckDocument("report.pdf", 1024, 5120*1024))
	assert.Equal(t, "Document report.pdf may not be larger than 5120 kilobytes", CheckDocument("report.pdf", 6*1024*1024, 5120*1024))
}

func TestValidateEventRejectsUnknownStatus(t *testing.T) {
	in := &EventInput{
		Title:       "Community Outreach",
		Date:        "2026-09-15",
		Time:        "10:00",
		Location:    "Kumasi",
		Type:        "upcoming",
		Description: "Quarterly outreach visit",
		Status:      "cancelled",
	}
	verr := ValidateEvent(in)
	require.NotNil(t, verr)
	assert.NotEmpty(t, verr.Fields["status"])
}

func TestValidateEventAcceptsValidInput(t *testing.T) {
	in := &EventInput{
		Title:       "Community Outreach",
		Date:        "2026-09-15",
		Time:        "10:00",
		Location:    "Kumasi",
		Type:        "upcoming",
		Description: "Quarterly outreach visit",
		Status:      "upcoming",
	}
	assert.Nil(t, ValidateEvent(in))
}
