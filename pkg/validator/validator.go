package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// RequestValidator plugs go-playground/validator into echo's Validator
// hook so handler request structs are checked from their `validate` tags.
type RequestValidator struct {
	validate *validator.Validate
}

// New creates a request validator with the default tag set.
func New() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate checks i against its struct tags.
func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.validate.Struct(i); err != nil {
		return fmt.Errorf("request validation failed: %w", err)
	}
	return nil
}
