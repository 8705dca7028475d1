package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/alejandrobg101/Syllabus-Chatbot/internal/model"
)

// RegisterValidators adds the domain tags used in binding rules:
//
//	semester   one of Fall, Spring, V1, V2 after case normalization
//	year4      exactly four digits
//	daypattern one of the configured day-pattern codes
func RegisterValidators(v *validator.Validate, dayPatterns []string) error {
	if err := v.RegisterValidation("semester", func(fl validator.FieldLevel) bool {
		return model.ValidSemester(model.NormalizeSemester(fl.Field().String()))
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("year4", func(fl validator.FieldLevel) bool {
		return model.ValidYear(fl.Field().String())
	}); err != nil {
		return err
	}
	allowed := append([]string(nil), dayPatterns...)
	return v.RegisterValidation("daypattern", func(fl validator.FieldLevel) bool {
		return model.DayPattern(fl.Field().String()).In(allowed)
	})
}
