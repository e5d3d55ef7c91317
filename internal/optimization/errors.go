package optimization

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is; every *Error built by this module
// wraps exactly one of them.
var (
	// ErrUnknownVariant is returned when a problem or algorithm name has no
	// registered constructor.
	ErrUnknownVariant = errors.New("unknown variant")
	// ErrInvalidParameter is returned by SetParams when the parameter list is
	// malformed. The receiver has already fallen back to its defaults.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInvalidCandidate is returned when a candidate does not fit the
	// problem it is scored against.
	ErrInvalidCandidate = errors.New("invalid candidate")
	// ErrNoProblem is returned when an algorithm is used before a problem
	// has been bound to it.
	ErrNoProblem = errors.New("no problem bound")
)

// Error represents an optimization error with context
// that can be wrapped with additional information.
type Error struct {
	// Message describes the error that occurred.
	Message string
	// Op is the operation that caused the error.
	Op string
	// Component is the component where the error occurred.
	Component string
	// Err is the underlying error, usually one of the kinds above.
	Err error
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var prefix string
	if e.Component != "" && e.Op != "" {
		prefix = fmt.Sprintf("%s: %s", e.Component, e.Op)
	} else if e.Component != "" {
		prefix = e.Component
	} else if e.Op != "" {
		prefix = e.Op
	}

	if e.Err != nil {
		if prefix != "" {
			return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	if prefix != "" {
		return fmt.Sprintf("%s: %s", prefix, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// WithOperation adds operation context to the error.
func (e *Error) WithOperation(op string) *Error {
	e.Op = op
	return e
}

// WithComponent adds component context to the error.
func (e *Error) WithComponent(component string) *Error {
	e.Component = component
	return e
}

// NewError creates an error of the given kind with a formatted message.
func NewError(kind error, format string, args ...interface{}) *Error {
	return &Error{
		Message: fmt.Sprintf(format, args...),
		Err:     kind,
	}
}

// WrapError wraps an existing error with additional context.
// If err is nil, WrapError returns nil.
func WrapError(err error, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// InvalidCandidate builds an ErrInvalidCandidate error for the named component.
func InvalidCandidate(component, format string, args ...interface{}) *Error {
	return NewError(ErrInvalidCandidate, format, args...).
		WithComponent(component).
		WithOperation("score")
}

// InvalidParameter builds an ErrInvalidParameter error for the named component.
func InvalidParameter(component, format string, args ...interface{}) *Error {
	return NewError(ErrInvalidParameter, format, args...).
		WithComponent(component).
		WithOperation("set params")
}

// IsOptimizationError checks if an error is of type Error.
// If the error is an optimization error, it returns the error and true.
// Otherwise, it returns nil and false.
func IsOptimizationError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
