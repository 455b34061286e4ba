// Package fault is the closed set of outcomes the catalog core reports to its
// callers. Guards, the write coordinator and services only ever return a
// *Error (or nil); storage and crypto errors are translated before they cross
// that boundary.
package fault

import (
	"errors"
	"fmt"
)

// Kind discriminates a fault. Callers switch on it rather than on error types.
type Kind uint8

const (
	KindUnclassified Kind = iota
	KindUnauthenticated
	KindIncorrectCredentials
	KindAccountInactive
	KindInsufficientRole
	KindUniqueViolation
	KindForeignKeyViolation
	KindRowNotFound
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindIncorrectCredentials:
		return "incorrect_credentials"
	case KindAccountInactive:
		return "account_inactive"
	case KindInsufficientRole:
		return "insufficient_role"
	case KindUniqueViolation:
		return "unique_violation"
	case KindForeignKeyViolation:
		return "foreign_key_violation"
	case KindRowNotFound:
		return "not_found"
	default:
		return "unclassified"
	}
}

// Error is a classified failure. Field is set for unique violations, Entity
// for foreign-key violations and missing rows, Key for missing rows.
type Error struct {
	Kind   Kind
	Field  string
	Entity string
	Key    string

	cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUniqueViolation:
		return fmt.Sprintf("fault: %s on %q", e.Kind, e.Field)
	case KindForeignKeyViolation:
		return fmt.Sprintf("fault: %s referencing %q", e.Kind, e.Entity)
	case KindRowNotFound:
		if e.Key == "" {
			return fmt.Sprintf("fault: %s: %s", e.Kind, e.Entity)
		}
		return fmt.Sprintf("fault: %s: %s %q", e.Kind, e.Entity, e.Key)
	default:
		return "fault: " + e.Kind.String()
	}
}

// Is reports whether target is a *Error of the same kind. A target that names
// a Field or Entity must also match it, so
//
//	errors.Is(err, fault.UniqueViolation("username"))
//
// is narrower than errors.Is(err, fault.ErrUniqueViolation).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if t.Field != "" && t.Field != e.Field {
		return false
	}
	if t.Entity != "" && t.Entity != e.Entity {
		return false
	}
	return true
}

// Cause returns the underlying error of an unclassified fault. It is meant for
// logs and is not reachable through errors.Unwrap.
func (e *Error) Cause() error { return e.cause }

var (
	ErrUnauthenticated      = &Error{Kind: KindUnauthenticated}
	ErrIncorrectCredentials = &Error{Kind: KindIncorrectCredentials}
	ErrAccountInactive      = &Error{Kind: KindAccountInactive}
	ErrInsufficientRole     = &Error{Kind: KindInsufficientRole}
	ErrUniqueViolation      = &Error{Kind: KindUniqueViolation}
	ErrForeignKeyViolation  = &Error{Kind: KindForeignKeyViolation}
	ErrRowNotFound          = &Error{Kind: KindRowNotFound}
	ErrUnclassified         = &Error{Kind: KindUnclassified}
)

func UniqueViolation(field string) *Error {
	return &Error{Kind: KindUniqueViolation, Field: field}
}

func ForeignKeyViolation(entity string) *Error {
	return &Error{Kind: KindForeignKeyViolation, Entity: entity}
}

func NotFound(entity, key string) *Error {
	return &Error{Kind: KindRowNotFound, Entity: entity, Key: key}
}

func Unclassified(cause error) *Error {
	return &Error{Kind: KindUnclassified, cause: cause}
}

// KindOf returns the kind carried by err, or KindUnclassified when err is not
// a fault.
func KindOf(err error) Kind {
	var f *Error
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindUnclassified
}

// As returns the *Error carried by err, if any.
func As(err error) (*Error, bool) {
	var f *Error
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
