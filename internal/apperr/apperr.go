// Package apperr defines the typed error kinds the services return and the
// single place they are mapped onto HTTP status codes.
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindDuplicateSKU
	KindInsufficientStock
	KindConflict
	KindPersistenceFailure
)

// Status maps an error kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindInvalidInput:
		return fiber.StatusBadRequest
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindDuplicateSKU, KindConflict:
		return fiber.StatusConflict
	case KindInsufficientStock:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap keeps the underlying store error for server-side logging while the
// caller only ever sees Message.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from any error in err's chain, KindUnknown if none.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}
