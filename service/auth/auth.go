// Package auth wraps the OTP sign-in endpoints. These run before a session
// exists, so the gateway sends them without bearer or tenant headers.
package auth

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/constrogen/procure"
	"github.com/constrogen/procure/client"
)

// Endpoints relative to the backend base URL. The backend verifies OTPs on
// EndpointOTP (a POST there is a verification); EndpointVerifyOTP is kept as
// the published contract path but is not routed to yet.
const (
	EndpointOTP       = "auth/otp/"
	EndpointVerifyOTP = "auth/verify-otp/"
)

// Service exposes the OTP endpoints over the shared gateway.
type Service struct {
	client *client.Client
	logger procure.Logger
}

// Option mutates Service.
type Option func(*Service)

// WithLogger overrides the logger.
func WithLogger(logger procure.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates an auth service.
func New(c *client.Client, options ...Option) *Service {
	s := &Service{client: c, logger: procure.DefaultLogger}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// RequestOTP asks the backend to send a one-time password to the given
// email. Failures are condensed to the most specific backend message.
func (s *Service) RequestOTP(ctx context.Context, email string) (json.RawMessage, error) {
	params := url.Values{"email": {email}}
	result, err := client.Get[json.RawMessage](ctx, s.client, EndpointOTP, params)
	if err != nil {
		s.logger.Errorf("failed to request otp for %s: %v", email, err)
		return nil, condense(err)
	}
	return result, nil
}

// VerifyOTP exchanges an email/OTP pair for the verification payload that
// feeds the session coordinator.
func (s *Service) VerifyOTP(ctx context.Context, email, otp string) (*procure.AuthInfo, error) {
	body := map[string]string{"email": email, "otp": otp}
	info, err := client.Post[*procure.AuthInfo](ctx, s.client, EndpointOTP, body)
	if err != nil {
		s.logger.Errorf("failed to verify otp for %s: %v", email, err)
		return nil, condense(err)
	}
	return info, nil
}

// otpErrorBody is the backend payload shape for sign-in failures.
type otpErrorBody struct {
	Email   []string `json:"email"`
	Error   string   `json:"error"`
	Message string   `json:"message"`
}

// condense reduces a standardized error to its most specific backend
// message, so the UI can show it verbatim.
func condense(err error) error {
	apiErr, ok := procure.AsError(err)
	if !ok || len(apiErr.Data) == 0 {
		return err
	}
	payload := &otpErrorBody{}
	if unmarshalErr := json.Unmarshal(apiErr.Data, payload); unmarshalErr != nil {
		return err
	}
	message := payload.Error
	if len(payload.Email) > 0 {
		message = payload.Email[0]
	}
	if message == "" {
		message = payload.Message
	}
	if message == "" {
		return err
	}
	return procure.NewError(apiErr.Status, message, apiErr.Data)
}
