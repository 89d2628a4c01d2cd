// Package validation provides custom validators for the application
package validation

import (
	"strings"

	"tally/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Initialize registers all custom validators
func Initialize() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	for tag, fn := range map[string]validator.Func{
		"nospaces":     validateNoSpaces,
		"currencycode": validateCurrencyCode,
		"entrytype":    validateEntryType,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// validateNoSpaces checks if a string contains non-space characters
func validateNoSpaces(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return strings.TrimSpace(value) != ""
}

// validateCurrencyCode checks that a string is a supported currency code
func validateCurrencyCode(fl validator.FieldLevel) bool {
	_, err := models.ParseCurrency(fl.Field().String())
	return err == nil
}

// validateEntryType checks that a string is a supported entry type
func validateEntryType(fl validator.FieldLevel) bool {
	_, err := models.ParseEntryType(fl.Field().String())
	return err == nil
}
