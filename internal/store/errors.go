package store

import "fmt"

// CorruptError reports stored content that exists but cannot be read back
// as an activity collection.
type CorruptError struct {
	Location string
	Err      error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("storage corrupt at %s: %v", e.Location, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// WriteError reports a failure to persist the collection.
type WriteError struct {
	Location string
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("storage write to %s failed: %v", e.Location, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
