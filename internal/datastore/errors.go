package datastore

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport classifies failures to fetch a collection document.
	ErrTransport = errors.New("datastore: transport failure")
	// ErrDecode classifies documents that could not be decoded.
	ErrDecode = errors.New("datastore: decode failure")
	// ErrNotConfigured is returned when no source was supplied.
	ErrNotConfigured = errors.New("datastore: source not configured")
)

// LoadError reports a collection that could not be loaded after all attempts.
type LoadError struct {
	Name     string
	Attempts int
	Kind     error
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v after %d attempt(s): %v", e.Name, e.Kind, e.Attempts, e.Err)
}

// Unwrap exposes both the classification and the underlying cause to errors.Is.
func (e *LoadError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
