package transport

import (
	"energy_diagnostic_backend/internal/diagnostic"
	"energy_diagnostic_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
)

// RegisterValidators adds the questionnaire enum rules used by the request DTOs.
func RegisterValidators(v *validator.Validator) error {
	if err := v.RegisterValidation("company_type", func(fl playground.FieldLevel) bool {
		return diagnostic.CompanyType(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("optimization_level", func(fl playground.FieldLevel) bool {
		return diagnostic.OptimizationLevel(fl.Field().String()).Valid()
	})
}
