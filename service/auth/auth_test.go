package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/constrogen/procure"
	"github.com/constrogen/procure/client"
	"github.com/constrogen/procure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var memCounter int

func newService(t *testing.T, handler http.HandlerFunc) (*Service, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	memCounter++
	store := storage.NewAfsStore(fmt.Sprintf("mem://localhost/auth%d", memCounter))
	c, err := client.New(server.URL, store)
	require.NoError(t, err)
	return New(c), server.Close
}

func TestService_VerifyOTP(t *testing.T) {
	service, closer := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/otp/", r.URL.Path)
		w.Write([]byte(`{"access":"A","refresh":"R","user":{"email":"a@b.com"}}`))
	})
	defer closer()

	info, err := service.VerifyOTP(context.Background(), "a@b.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "A", info.AccessToken())
	assert.Equal(t, "a@b.com", info.User.Email)
}

func TestService_RequestOTPCondensesFailure(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "field error preferred",
			body: `{"email":["enter a valid email"],"error":"invalid input"}`,
			want: "enter a valid email",
		},
		{
			name: "error field fallback",
			body: `{"error":"otp limit reached"}`,
			want: "otp limit reached",
		},
		{
			name: "message fallback",
			body: `{"message":"try again later"}`,
			want: "try again later",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, closer := newService(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body))
			})
			defer closer()

			_, err := service.RequestOTP(context.Background(), "bad@email")
			require.Error(t, err)
			apiErr, ok := procure.AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.want, apiErr.Message)
		})
	}
}
