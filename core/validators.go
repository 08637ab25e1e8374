package core

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	whatsappTag   = "whatsapp"
	whatsappText  = "please enter a 10-digit phone number"
	whatsappRegex = regexp.MustCompile(`^[0-9]{10}$`)

	marksTag  = "marks"
	marksText = "marks must be a number between 0 and 100"

	acceptedTag  = "accepted"
	acceptedText = "you must accept the terms and conditions"

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"
)

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(whatsappTag, whatsappValidation)
	RegisterCustomTranslation(validate, translator, whatsappTag, whatsappText)

	_ = validate.RegisterValidation(marksTag, marksValidation)
	RegisterCustomTranslation(validate, translator, marksTag, marksText)

	_ = validate.RegisterValidation(acceptedTag, acceptedValidation)
	RegisterCustomTranslation(validate, translator, acceptedTag, acceptedText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

// whatsappValidation only allows 10-digit numbers.
func whatsappValidation(fl validator.FieldLevel) bool {
	return whatsappRegex.MatchString(fl.Field().String())
}

// marksValidation only allows percentages: numbers in [0, 100].
func marksValidation(fl validator.FieldLevel) bool {
	marks, err := strconv.ParseFloat(fl.Field().String(), 64)
	if err != nil {
		return false
	}
	return marks >= 0 && marks <= 100
}

// acceptedValidation requires a checked box.
func acceptedValidation(fl validator.FieldLevel) bool {
	return fl.Field().Kind() == reflect.Bool && fl.Field().Bool()
}
