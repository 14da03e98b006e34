package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Sentinel errors returned by the services. Handlers map them to HTTP statuses;
// anything else is an internal failure.
var (
	ErrValidation         = errors.New("invalid input")
	ErrConflict           = errors.New("email or number already registered")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput checks the struct's validate tags and wraps any failure in ErrValidation.
func validateInput(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
