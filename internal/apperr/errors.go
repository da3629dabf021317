// Package apperr defines the error taxonomy shared by the client and the store.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound = errors.New("not found")
)

// ValidationError is a client-side precondition failure. It is reported
// synchronously and never reaches the network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// RequestError is a non-2xx response from the notes service. Message holds
// the human-readable detail extracted from the error body when the service
// provided one, else a "<status> <statusText>" fallback.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
}

// UnreachableError is a transport failure: the service could not be reached
// or did not produce a response.
type UnreachableError struct {
	Err error
}

func (e *UnreachableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("notes service unreachable: %v", e.Err)
	}
	return "notes service unreachable"
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// ConflictError rejects a mutation that targets a note whose optimistic
// create is still in flight.
type ConflictError struct {
	ID int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("note %d has a create in flight", e.ID)
}
