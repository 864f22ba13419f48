package procure

import (
	"errors"
	"net/http"
)

// SessionExpiredMessage is the user-facing message attached to a forced logout.
const SessionExpiredMessage = "Session expired. Redirecting to login."

// SessionExpiredError marks the one failure with a mandatory side effect: the
// backend rejected the access token as invalid or expired and the client
// triggered a forced logout. It unwraps to the standardized *Error carrying
// status 401.
type SessionExpiredError struct {
	Cause *Error
}

// Error implements the error interface.
func (e *SessionExpiredError) Error() string {
	return e.Cause.Error()
}

// Unwrap exposes the standardized error shape.
func (e *SessionExpiredError) Unwrap() error {
	return e.Cause
}

// NewSessionExpiredError constructs a new SessionExpiredError carrying the raw response body.
func NewSessionExpiredError(body []byte) *SessionExpiredError {
	return &SessionExpiredError{Cause: NewError(http.StatusUnauthorized, SessionExpiredMessage, body)}
}

// IsSessionExpired returns true if err is or wraps a SessionExpiredError.
func IsSessionExpired(err error) bool {
	var target *SessionExpiredError
	return errors.As(err, &target)
}
