package auth

import "errors"

// ErrInvalidToken is the common parent of every token rejection.
var ErrInvalidToken = errors.New("invalid token")

var (
	ErrExpired   = &tokenError{reason: "token expired"}
	ErrMalformed = &tokenError{reason: "token malformed"}
	ErrWrongType = &tokenError{reason: "wrong token type"}
)

type tokenError struct {
	reason string
}

func (e *tokenError) Error() string {
	return e.reason
}

func (e *tokenError) Unwrap() error {
	return ErrInvalidToken
}
