package domain

import "errors"

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError represents a required or malformed field caught before
// any store call is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MissingField returns the ValidationError for an absent required field.
func MissingField(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "Missing " + field}
}

// StoreError reports a failure returned by the issue store. Its message is
// the store's own message, unmodified.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
