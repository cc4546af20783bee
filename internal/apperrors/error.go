// Package apperrors provides the classified error type shared by the
// validation, stock policy and service layers.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport boundary.
type Kind int

const (
	// Internal is an unexpected failure, usually from the store.
	Internal Kind = iota
	// InvalidArgument is malformed or out-of-policy input.
	InvalidArgument
	// OutOfRange is a numeric bound violation on input.
	OutOfRange
	// InvalidOperation is a stock policy violation.
	InvalidOperation
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case OutOfRange:
		return "OutOfRange"
	case InvalidOperation:
		return "InvalidOperation"
	default:
		return "Internal"
	}
}

// Error is an error carrying a Kind and a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err as Internal.
func Wrap(err error, message string) *Error {
	return &Error{Kind: Internal, Message: message, Err: err}
}

// KindOf returns the Kind of err. Unclassified errors are Internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// IsClient reports whether err was caused by the caller's input.
func IsClient(err error) bool {
	if err == nil {
		return false
	}
	return KindOf(err) != Internal
}

// MessageOf returns the client-safe message of a classified error, or
// fallback for anything else.
func MessageOf(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != Internal {
		return appErr.Message
	}
	return fallback
}
