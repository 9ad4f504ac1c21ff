package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/emre/uninews/internal/pkg/validation"
)

// RegisterCustomValidators installs application-specific binding tags on
// gin's validator engine. Must be called before the router handles requests.
func RegisterCustomValidators() error {
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := engine.RegisterValidation("username", validUsername); err != nil {
		return err
	}

	return nil
}

// validUsername allows letters, digits, dots, underscores and hyphens,
// between 3 and 150 characters.
func validUsername(fl validator.FieldLevel) bool {
	return validation.CompiledPatterns.Username.MatchString(fl.Field().String())
}
