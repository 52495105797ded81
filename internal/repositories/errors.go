package repositories

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist or is inactive.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates the attempted write would violate a uniqueness constraint.
	ErrConflict = errors.New("record conflict")
	// ErrInvalidID indicates the supplied identifier is not a valid record id.
	ErrInvalidID = errors.New("invalid record id")
)
