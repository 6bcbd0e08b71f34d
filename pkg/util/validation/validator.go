// Package validation wraps go-playground/validator with the rules and
// messages used by the API request payloads.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// allowedEmail accepts addresses hosted by the public providers customers register with.
var allowedEmail = regexp.MustCompile(`^[^\s@]+@(gmail\.com|hotmail\.com|yahoo\.com|outlook\.com)$`)

// Validator wraps the go-playground validator for structured validation.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the custom rules registered.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("snackemail", func(fl validator.FieldLevel) bool {
		return IsAllowedEmail(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("validation: register snackemail: %v", err))
	}
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s any) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field any, tag string) error {
	return val.v.Var(field, tag)
}

// IsAllowedEmail reports whether email belongs to one of the accepted providers.
func IsAllowedEmail(email string) bool {
	return allowedEmail.MatchString(strings.TrimSpace(email))
}

// Message renders the first validation failure as a user-facing sentence.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Datos inválidos"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es obligatorio", fe.Field())
	case "snackemail":
		return "El correo debe ser válido y terminar en gmail.com, hotmail.com, yahoo.com o outlook.com"
	case "email":
		return fmt.Sprintf("%s debe ser un correo válido", fe.Field())
	case "min":
		return fmt.Sprintf("%s debe tener al menos %s caracteres", fe.Field(), fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("%s debe ser mayor a %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s no es válido", fe.Field())
	}
}
