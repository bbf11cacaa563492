package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a source list does not exist.
	ErrNotFound = errors.New("word list not found")
	// ErrEmpty is returned when a source list has no entries.
	ErrEmpty = errors.New("word list is empty")
	// ErrMalformed is returned when a source list lacks required fields.
	ErrMalformed = errors.New("word list is malformed")
	// ErrNoLists is returned by Discover when the directory holds no lists.
	ErrNoLists = errors.New("no word lists found")
)

// LoadError reports why a source list could not be loaded.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
