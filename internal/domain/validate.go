package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report field names the way callers send them.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	enums := map[string]func(string) bool{
		"threat_level":    func(s string) bool { return ThreatLevel(s).IsValid() },
		"account_status":  func(s string) bool { return AccountStatus(s).IsValid() },
		"evidence_kind":   func(s string) bool { return EvidenceKind(s).IsValid() },
		"identifier_kind": func(s string) bool { return IdentifierKind(s).IsValid() },
		"admin_id":        func(s string) bool { return AdminID(s).IsValid() },
	}
	for tag, ok := range enums {
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return ok(fl.Field().String())
		})
	}

	return v
}

// ValidateStruct checks s against its `validate` tags and converts failures
// into a *ValidationError listing every offending field.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return NewValidationErrors(fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "max":
		return "max " + fe.Param() + " characters"
	case "min":
		return "min " + fe.Param()
	default:
		return "invalid value"
	}
}
