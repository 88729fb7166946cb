// Package validation runs the same struct rules gin applies at bind time, so
// services can enforce request invariants without an HTTP layer in front.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/geocoder89/recipehub/internal/security"
	"github.com/go-playground/validator/v10"
)

// Validator is safe for concurrent use and caches struct metadata.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// same tag gin uses, so request structs carry one set of rules
	v.SetTagName("binding")

	if err := Register(v); err != nil {
		panic(err)
	}

	return &Validator{v: v}
}

// Register installs the JSON field naming and the custom rules on v. It is
// applied to gin's binding engine as well, so both report alike.
func Register(v *validator.Validate) error {
	// report fields by their wire names
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return sf.Name
		}
		return name
	})

	return v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		return f.Kind() == reflect.String && len(f.String()) <= security.MaxPasswordBytes
	})
}

// Struct validates s and returns *Error when any rule fails.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	if verrs, ok := err.(validator.ValidationErrors); ok {
		return &Error{Errs: verrs}
	}

	return err
}

// FieldError is one failed rule, addressed by JSON field name.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// Error wraps the failed rules so handlers can render them per field.
type Error struct {
	Errs validator.ValidationErrors
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Errs))
	for _, fe := range e.Errs {
		parts = append(parts, fe.Field()+": "+fe.Tag())
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *Error) Unwrap() error {
	return e.Errs
}

func (e *Error) Fields() []FieldError {
	return Fields(e.Errs)
}

// Fields flattens validator output, e.g. from gin's binding engine.
func Fields(errs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(errs))
	for _, fe := range errs {
		out = append(out, FieldError{
			Field:   fieldPath(fe),
			Rule:    fe.Tag(),
			Param:   fe.Param(),
			Message: Message(fe.Tag(), fe.Param()),
		})
	}
	return out
}

// fieldPath drops the root struct name from the namespace, leaving e.g.
// "user_fullname" or "items[0].title".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

// Message renders a rule the way API clients see it.
func Message(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param + " characters"
	case "max":
		return "must be at most " + param + " characters"
	case "bcryptlen":
		return fmt.Sprintf("must be at most %d bytes", security.MaxPasswordBytes)
	case "uuid", "uuid4":
		return "must be a UUID"
	}

	if param != "" {
		return fmt.Sprintf("failed %s validation (%s)", rule, param)
	}
	return "failed " + rule + " validation"
}
