package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags & texts
	alphaSpaceTag   = "alpha_space"
	alphaSpaceText  = "{0} should only contain letters and spaces"
	alphaSpaceRegex = regexp.MustCompile(`^[a-zA-Z\s]+$`)

	dateText = "{0} must be a valid date"
)

// Instantiate the validator for use.
func init() {
	Validate = validator.New()

	// Register the english error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = Validate.RegisterValidation(alphaSpaceTag, alphaSpaceValidation)
	RegisterCustomTranslation(alphaSpaceTag, alphaSpaceText)
	RegisterCustomTranslation("datetime", dateText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = Validate.RegisterTranslation(
		tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// alphaSpaceValidation only allows letters and whitespace.
func alphaSpaceValidation(fl validator.FieldLevel) bool {
	return alphaSpaceRegex.MatchString(fl.Field().String())
}

// Error carries one or more messages per violated field. Every violation found
// in a request is reported together, not just the first.
type Error struct {
	Fields map[string][]string `json:"errors"`
}

func (e *Error) Error() string {
	return "the given data was invalid"
}

// Add appends a message for a field; it is safe to call on a nil receiver and
// returns the (possibly newly allocated) error.
func (e *Error) Add(field, msg string) *Error {
	if e == nil {
		e = &Error{Fields: make(map[string][]string)}
	}
	e.Fields[field] = append(e.Fields[field], msg)
	return e
}

// collectStructErrors translates validator violations into an *Error, merging
// into an existing one when given.
func collectStructErrors(verr *Error, err error) *Error {
	if err == nil {
		return verr
	}
	violations, ok := err.(validator.ValidationErrors)
	if !ok {
		return verr.Add("error", err.Error())
	}
	for _, fe := range violations {
		verr = verr.Add(fe.Field(), fe.Translate(Translator))
	}
	return verr
}
