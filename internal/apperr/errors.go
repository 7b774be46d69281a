// Package apperr classifies failures so transport layers can pick a status
// code without inspecting error strings.
package apperr

import (
	"errors"
	"fmt"
)

// Kind enumerates the failure classes surfaced at the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalid
	KindUnauthorized
	KindNotFound
	KindMethodNotAllowed
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "internal"
	}
}

var (
	ErrUnauthorized = New(KindUnauthorized, "auth", errors.New("no resolvable identity"))
	ErrNotFound     = New(KindNotFound, "get note", errors.New("no such note"))
)

// Error carries a Kind and the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// New wraps err with kind and op.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Invalid wraps err as KindInvalid.
func Invalid(op string, err error) *Error { return New(KindInvalid, op, err) }

// Internal wraps err as KindInternal.
func Internal(op string, err error) *Error { return New(KindInternal, op, err) }

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind so errors.Is(err, ErrNotFound) works for
// any not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the outermost *Error in err's chain.
// Unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
