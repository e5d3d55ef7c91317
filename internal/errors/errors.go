// Package errors maps search service errors onto HTTP responses.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/copyleftdev/localsearch/internal/optimization"
)

// Error represents an error together with the HTTP status it is answered with.
type Error struct {
	// The HTTP status code
	Status int
	// A human-readable message describing the error
	Message string
	// The underlying error, if any
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Message
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error with a status and a message.
func New(status int, msg string) *Error {
	return &Error{Status: status, Message: msg}
}

// Errorf creates a new error with a status and a formatted message.
func Errorf(status int, format string, args ...interface{}) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a status to err. It returns nil if err is nil.
func Wrap(err error, status int) *Error {
	if err == nil {
		return nil
	}
	return &Error{Status: status, Err: err}
}

// StatusCode returns the HTTP status for err. An explicit status anywhere in
// the chain wins; optimization errors caused by the request map to 400 and
// everything else to 500.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var e *Error
	if errors.As(err, &e) && e.Status != 0 {
		return e.Status
	}

	switch {
	case errors.Is(err, optimization.ErrUnknownVariant),
		errors.Is(err, optimization.ErrInvalidParameter),
		errors.Is(err, optimization.ErrInvalidCandidate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON answers with {"error": err} and the status chosen by StatusCode.
func WriteJSON(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusCode(err))
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	})
}
