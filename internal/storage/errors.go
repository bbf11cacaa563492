package storage

import "fmt"

// PersistenceError reports a failed read or write of the record store.
type PersistenceError struct {
	Op     string
	ListID string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage: %s for list %q: %v", e.Op, e.ListID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistErr(op, listID string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, ListID: listID, Err: err}
}
