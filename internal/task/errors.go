package task

import (
	"errors"
	"fmt"
)

var ErrEmptyTitle = errors.New("title is required")

// ValidationError rejects an operation before the store is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	if e.Field == "title" {
		return ErrEmptyTitle
	}
	return nil
}

// PersistenceError reports a failed read or write of the backing store.
// The in-memory collection stays authoritative when it is returned from a mutation.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsWarning reports whether err only signals a persistence failure, meaning the
// requested change was applied in memory.
func IsWarning(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// IsReadFailure reports whether err is a failed read of the saved collection.
// After one, the store holds the defaults, and saving would overwrite the
// user's data.
func IsReadFailure(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe) && pe.Op == "get"
}
