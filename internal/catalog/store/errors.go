package store

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("store: not found")

// MissingError reports a lookup or write that matched no row.
// errors.Is(err, ErrNotFound) holds for every MissingError.
type MissingError struct {
	Entity string
	Key    string
}

func NotFound(entity, key string) *MissingError {
	return &MissingError{Entity: entity, Key: key}
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("store: %s %q not found", e.Entity, e.Key)
}

func (e *MissingError) Is(target error) bool { return target == ErrNotFound }

type ViolationKind uint8

const (
	ViolationUnique ViolationKind = iota + 1
	ViolationForeignKey
	ViolationCheck
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationUnique:
		return "unique"
	case ViolationForeignKey:
		return "foreign_key"
	case ViolationCheck:
		return "check"
	default:
		return "unknown"
	}
}

// Op is the kind of statement that raised a violation.
type Op uint8

const (
	OpWrite Op = iota
	OpDelete
)

// Violation is a write rejected by a constraint, as reported by the driver's
// structured error. Constraint is empty when the engine does not report it.
type Violation struct {
	Kind       ViolationKind
	Table      string
	Constraint string
	Op         Op
	Err        error
}

func (v *Violation) Error() string {
	if v.Constraint != "" {
		return fmt.Sprintf("store: %s violation on %s (%s): %v", v.Kind, v.Table, v.Constraint, v.Err)
	}
	return fmt.Sprintf("store: %s violation on %s: %v", v.Kind, v.Table, v.Err)
}

func (v *Violation) Unwrap() error { return v.Err }
