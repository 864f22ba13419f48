package procure

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "http error",
			err:  NewError(404, "not found", nil),
			want: "status: 404, message: not found",
		},
		{
			name: "transport error",
			err:  NewTransportError("connection refused"),
			want: "connection refused",
		},
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsSessionExpired(t *testing.T) {
	expired := NewSessionExpiredError([]byte(`{"code":"token_not_valid"}`))
	if !IsSessionExpired(expired) {
		t.Errorf("expected expired error to match")
	}
	if !IsSessionExpired(fmt.Errorf("call failed: %w", expired)) {
		t.Errorf("expected wrapped expired error to match")
	}
	if IsSessionExpired(NewError(401, "unauthorized", nil)) {
		t.Errorf("plain 401 must not match")
	}
	if expired.Cause.Status != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", expired.Cause.Status, http.StatusUnauthorized)
	}
	if expired.Cause.Message != SessionExpiredMessage {
		t.Errorf("message: got %q, want %q", expired.Cause.Message, SessionExpiredMessage)
	}
}

func TestSessionExpiredError_UnwrapsToStandardized(t *testing.T) {
	var err error = NewSessionExpiredError(nil)
	target, ok := AsError(err)
	if !ok {
		t.Fatalf("expected session expired error to unwrap to *Error")
	}
	if target.Status != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", target.Status)
	}
	var std *Error
	if !errors.As(err, &std) {
		t.Errorf("errors.As must reach the standardized shape")
	}
}
