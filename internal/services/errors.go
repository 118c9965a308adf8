package services

import (
	"errors"

	"github.com/SAP-F-2025/alumni-service/internal/validator"
)

var (
	ErrAlumniNotFound = errors.New("alumni not found")
	ErrInvalidPage    = errors.New("invalid page")
)

type ValidationError = validator.ValidationError
type ValidationErrors = validator.ValidationErrors

// NewFieldError builds a single-field validation failure
func NewFieldError(field, message, rule string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message, Rule: rule}}
}

func emailTakenError(email string) ValidationErrors {
	return ValidationErrors{{
		Field:   "email",
		Message: "alumni with this email already exists.",
		Value:   email,
		Rule:    "unique",
	}}
}

func missingFieldsError(fields []string) ValidationErrors {
	out := make(ValidationErrors, 0, len(fields))
	for _, f := range fields {
		out = append(out, ValidationError{Field: f, Message: "This field is required.", Rule: "required"})
	}
	return out
}

// nullFieldsError rejects explicit nulls on fields that cannot hold one
func nullFieldsError(fields []string) ValidationErrors {
	var out ValidationErrors
	for _, f := range fields {
		if f == "email" {
			continue
		}
		out = append(out, ValidationError{Field: f, Message: "This field may not be null.", Rule: "null"})
	}
	return out
}

// IsValidationError reports whether err carries field validation failures
func IsValidationError(err error) bool {
	var verrs ValidationErrors
	return errors.As(err, &verrs)
}
