// Package apperr defines the typed failures returned by the service layer.
// Every error that leaves a service carries a Kind; the HTTP layer maps the
// kind to a status code and never inspects message text.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind uint8

const (
	Internal Kind = iota
	InvalidInput
	NotFound
	Forbidden
	Unauthenticated
	Conflict
	AlreadyCancelled
	TooLarge
	UnsupportedType
	StorageUnavailable
)

var kindNames = [...]string{
	Internal:           "internal",
	InvalidInput:       "invalid_input",
	NotFound:           "not_found",
	Forbidden:          "forbidden",
	Unauthenticated:    "unauthenticated",
	Conflict:           "conflict",
	AlreadyCancelled:   "already_cancelled",
	TooLarge:           "too_large",
	UnsupportedType:    "unsupported_type",
	StorageUnavailable: "storage_unavailable",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error is a failure tagged with its Kind and the operation that produced it.
type Error struct {
	Kind Kind
	Op   string // e.g. "reservation.create"
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// E builds an *Error.
func E(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf builds an *Error whose cause is a formatted message.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind of the outermost *Error in err's chain, or
// Internal when err carries none.  A nil error has no kind and reports
// Internal as well; callers check err != nil first.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
