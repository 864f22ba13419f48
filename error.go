package procure

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error is the uniform shape every failure crossing the client boundary is
// coerced into, whether it originated from a network failure, a non-2xx
// response, or a request setup error. Status is zero when no HTTP response
// was received.
type Error struct {
	Message string          `json:"message"`
	Status  int             `json:"status,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Status > 0 {
		return fmt.Sprintf("status: %d, message: %s", e.Status, e.Message)
	}
	return e.Message
}

// NewError creates an error for an HTTP error response.
func NewError(status int, message string, data []byte) *Error {
	return &Error{Message: message, Status: status, Data: data}
}

// NewTransportError creates an error for a failure with no HTTP response.
func NewTransportError(message string) *Error {
	return &Error{Message: message}
}

// AsError returns the standardized error if err is or wraps one.
func AsError(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
