package profile

import "fmt"

// ConfigurationError is returned when required credentials are missing.
// It is terminal: no request is issued and no partial summary is produced.
type ConfigurationError struct {
	Field string
}

// Error implements the error interface.
func (e ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s is required", e.Field)
}

// RemoteFetchError is returned when the primary user or repository fetch fails.
type RemoteFetchError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e RemoteFetchError) Error() string {
	return fmt.Sprintf("remote fetch %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying transport or decoding error.
func (e RemoteFetchError) Unwrap() error {
	return e.Err
}
