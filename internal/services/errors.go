package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrValidation         = errors.New("validation failure")
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", ErrValidation)
)

type ErrorKind string

const (
	KindNotFound           ErrorKind = "NotFound"
	KindInvalidCredentials ErrorKind = "InvalidCredentials"
	KindInvalidToken       ErrorKind = "InvalidToken"
	KindUnauthorized       ErrorKind = "Unauthorized"
	KindValidation         ErrorKind = "ValidationFailure"
	KindUnknown            ErrorKind = "Unknown"
)

// KindOf classifies err into the error taxonomy. A nil error has no kind.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidCredentials):
		return KindInvalidCredentials
	case errors.Is(err, ErrInvalidToken):
		return KindInvalidToken
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrValidation):
		return KindValidation
	default:
		return KindUnknown
	}
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Detail returns err's message without the validation prefix, for showing a
// validation failure to a client.
func Detail(err error) string {
	return strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
}
