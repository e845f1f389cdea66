package store

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPriority = errors.New("priority must be between 1 and 5")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrIDCollision     = errors.New("could not generate a unique task id")
)

// PersistenceError reports a failed snapshot load or save. The store keeps
// operating in memory when one occurs.
type PersistenceError struct {
	Op  string // "load" or "save"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("snapshot %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
