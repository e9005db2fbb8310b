package puzzle

import (
	"errors"
	"fmt"
)

// ErrEmptySet is matched by every EmptySetError.
var ErrEmptySet = errors.New("puzzle set is empty")

// EmptySetError is returned when a puzzle list without entries is loaded.
type EmptySetError struct {
	Source string
}

func (e *EmptySetError) Error() string {
	if e.Source == "" {
		return ErrEmptySet.Error()
	}
	return fmt.Sprintf("%s: %s", ErrEmptySet, e.Source)
}

func (e *EmptySetError) Is(target error) bool { return target == ErrEmptySet }

// FetchError reports a failure retrieving or decoding the puzzle list.
type FetchError struct {
	Source string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch puzzles from %s: status %d", e.Source, e.Status)
	}
	return fmt.Sprintf("fetch puzzles from %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
