package domain

import "errors"

var (
	// ErrInvalidInput marks request data that cannot be processed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrExternalService marks a failed call to the routing provider.
	ErrExternalService = errors.New("external service failure")
	// ErrMissingAPIKey is returned by the routing provider when no key is configured.
	ErrMissingAPIKey = errors.New("routing api key not configured")
	// ErrSerialization marks a GPX document that could not be built.
	ErrSerialization = errors.New("gpx serialization failed")
)

// StageError records which pipeline stage produced an error.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}
