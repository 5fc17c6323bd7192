package resolver

import (
	"errors"

	"github.com/piranimarcos/bookApp/auth"
	"github.com/piranimarcos/bookApp/library"
)

// Kind discriminates the failures an operation can report.
type Kind string

const (
	KindUnauthorized Kind = "Unauthorized"
	KindNotFound     Kind = "NotFound"
	KindValidation   Kind = "ValidationError"
	KindPersistence  Kind = "PersistenceError"
)

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrValidation   = &Error{Kind: KindValidation}
	ErrPersistence  = &Error{Kind: KindPersistence}
)

// Error is the failure of one operation. Message is safe to show to the
// caller; Err keeps the cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Extensions is picked up by the GraphQL layer and sent with the error.
func (e *Error) Extensions() map[string]any {
	return map[string]any{
		"code":      string(e.Kind),
		"operation": e.Op,
	}
}

// KindOf returns the kind of err, or "" when it is not an operation error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func classify(op string, err error) *Error {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return &Error{Kind: KindUnauthorized, Op: op, Err: err}
	case errors.Is(err, library.ErrNotFound):
		return &Error{Kind: KindNotFound, Op: op, Message: err.Error(), Err: err}
	case errors.Is(err, library.ErrUnknownAuthor), errors.Is(err, library.ErrAuthorHasBooks):
		return &Error{Kind: KindValidation, Op: op, Message: err.Error(), Err: err}
	default:
		return &Error{Kind: KindPersistence, Op: op, Message: "storage failure", Err: err}
	}
}
