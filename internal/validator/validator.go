package validator

import (
	"regexp"

	"matchpoint/internal/model"

	"github.com/go-playground/validator/v10"
)

var courtNameRegex = regexp.MustCompile(`^[A-Za-z0-9 ]{1,50}$`)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// Custom validators
	v.RegisterValidation("password_strength", validatePasswordStrength)
	v.RegisterValidation("court_name", validateCourtName)
	v.RegisterValidation("role", validateRole)

	return &Validator{validate: v}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func validatePasswordStrength(fl validator.FieldLevel) bool {
	password := fl.Field().String()

	if len(password) < 8 {
		return false
	}

	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasDigit := regexp.MustCompile(`\d`).MatchString(password)

	return hasUpper && hasLower && hasDigit
}

func validateCourtName(fl validator.FieldLevel) bool {
	return courtNameRegex.MatchString(fl.Field().String())
}

func validateRole(fl validator.FieldLevel) bool {
	_, err := model.ParseRole(fl.Field().String())
	return err == nil
}
