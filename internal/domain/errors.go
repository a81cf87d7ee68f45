package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateID   = errors.New("duplicate employee id")
	ErrNotFound      = errors.New("employee not found")
	ErrInvalidRecord = errors.New("invalid employee record")
	ErrPersistence   = errors.New("persistence failure")
)

// DuplicateIdError is returned when an id is already present in the store.
type DuplicateIdError struct {
	ID int
}

func (e *DuplicateIdError) Error() string {
	return fmt.Sprintf("Already exists employee %d", e.ID)
}

func (e *DuplicateIdError) Is(target error) bool { return target == ErrDuplicateID }

// NotFoundError is returned when a lookup or removal misses.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Not found employee %d", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvalidRecordError is returned when a record cannot be stored or indexed.
type InvalidRecordError struct {
	ID     int
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid employee record %d: %s", e.ID, e.Reason)
}

func (e *InvalidRecordError) Is(target error) bool { return target == ErrInvalidRecord }

// PersistenceError wraps I/O and malformed-data failures of a snapshot backend.
type PersistenceError struct {
	Op      string
	Backend string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *PersistenceError) Unwrap() error { return e.Err }

// NewPersistenceError wraps err unless it is nil or already a PersistenceError.
func NewPersistenceError(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Backend: backend, Err: err}
}
