package profile

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/stratosedge/portal/core"
)

var (
	statusTag  = "profilestatus"
	statusText = "invalid status"

	dobTag  = "datetime"
	dobText = "date must be formatted as YYYY-MM-DD"
)

// InitValidators registers the profile validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
	core.RegisterCustomTranslation(validate, translator, dobTag, dobText, true)
}

func statusValidation(fl validator.FieldLevel) bool {
	return Status(fl.Field().String()).Valid()
}
