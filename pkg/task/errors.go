package task

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrDefaultCategory = errors.New("the default category cannot be deleted")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrMalformed       = errors.New("malformed stored data")
	ErrPersist         = errors.New("failed to persist")
)

// ValidationError reports an empty or invalid caller supplied field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MalformedStorageError is recovered while loading: the store falls back to
// the default collection and logs it.
type MalformedStorageError struct {
	Key string
	Err error
}

func (e *MalformedStorageError) Error() string {
	return fmt.Sprintf("malformed %s data: %v", e.Key, e.Err)
}

func (e *MalformedStorageError) Unwrap() error { return e.Err }

func (e *MalformedStorageError) Is(target error) bool {
	return target == ErrMalformed
}

// PersistError is returned when a save fails after the in-memory collections
// were already changed. The change is kept and written by the next
// successful save of the same collection.
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Key, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

func (e *PersistError) Is(target error) bool {
	return target == ErrPersist
}

func indexError(name string, i, n int) error {
	return fmt.Errorf("%s %d not in [0, %d): %w", name, i, n, ErrIndexOutOfRange)
}
