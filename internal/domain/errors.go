package domain

import "errors"

// ErrNotFound is returned when an event id is absent from the catalog.
var ErrNotFound = errors.New("event not found")

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func ErrValidation(msg string) error {
	return &ValidationError{Message: msg}
}
