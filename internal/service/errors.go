package service

import (
	"errors"

	"github.com/geocoder89/recipehub/internal/validation"
)

var (
	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnknownSubject means a structurally valid token names a user that
	// no longer exists.
	ErrUnknownSubject = errors.New("token subject no longer exists")
)

// ValidationError rejects input before it reaches a store. Rules is set when
// struct rules failed; Reason alone covers checks that have no field.
type ValidationError struct {
	Reason string
	Rules  *validation.Error
}

func (e *ValidationError) Error() string {
	if e.Rules != nil {
		return e.Rules.Error()
	}
	return "validation failed: " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	if e.Rules == nil {
		return nil
	}
	return e.Rules
}

func checkStruct(v *validation.Validator, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var rules *validation.Error
	if errors.As(err, &rules) {
		return &ValidationError{Rules: rules}
	}

	return err
}
