package validator

import (
	"log"

	"pinkcollar_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные функции валидации.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-experience", validateExperience)
	mustRegister("is-education", validateEducation)
	mustRegister("is-function", validateJobFunction)
	mustRegister("is-industry", validateIndustry)
	mustRegister("is-invite-status", validateInviteStatus)
}

// Пустые значения пропускаются, для этого есть 'required'.

func validateExperience(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := models.ParseExperience(value)
	return ok
}

func validateEducation(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := models.ParseEducation(value)
	return ok
}

func validateJobFunction(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := models.ParseJobFunction(value)
	return ok
}

func validateIndustry(fl validator.FieldLevel) bool {
	return models.IsValidIndustry(fl.Field().String())
}

func validateInviteStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := models.ParseInviteStatus(value)
	return ok
}
