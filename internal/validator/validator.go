package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single field failure
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// Fields maps each failing field to its messages
func (ve ValidationErrors) Fields() map[string][]string {
	out := make(map[string][]string, len(ve))
	for _, e := range ve {
		out[e.Field] = append(out[e.Field], e.Message)
	}
	return out
}

// Validator wraps go-playground/validator and reports JSON field names
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	v := &Validator{validate: validate}
	if err := registerRules(validate, v.rules()); err != nil {
		panic(err)
	}

	return v
}

// rules are the blank-tolerant variants used by pointer fields, where
// omitempty does not skip a pointer to ""
func (v *Validator) rules() map[string]validator.Func {
	optional := func(rule string) validator.Func {
		return func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			return value == "" || v.validate.Var(value, rule) == nil
		}
	}
	return map[string]validator.Func{
		"optional_email": optional("email"),
		"optional_url":   optional("url"),
	}
}

func registerRules(validate *validator.Validate, rules map[string]validator.Func) error {
	for tag, fn := range rules {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %q rule: %w", tag, err)
		}
	}
	return nil
}

// Validate checks s against its struct tags. It returns nil or ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	return ToValidationErrors(err)
}

// ToValidationErrors converts validator errors into ValidationErrors
func ToValidationErrors(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		out = append(out, ValidationError{
			Field:   fieldPath(fe),
			Message: errorMessage(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

// fieldPath drops the struct name so nested errors read like "skills[0]"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		if fe.Kind() == reflect.String {
			return "This field may not be blank."
		}
		return fmt.Sprintf("Ensure this field has at least %s elements.", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this field has no more than %s elements.", fe.Param())
	case "email", "optional_email":
		return "Enter a valid email address."
	case "url", "optional_url":
		return "Enter a valid URL."
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
