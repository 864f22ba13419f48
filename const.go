package procure

import "time"

// AuthInfoKey is the storage key under which the authentication blob is persisted.
const AuthInfoKey = "authInfo"

// Header names attached by the REST client.
const (
	HeaderAuthorization = "Authorization"
	HeaderAccount       = "x-account"
	HeaderRequestID     = "X-Request-Id"
)

// Backend error contract for the expired-token case.
const (
	CodeTokenNotValid   = "token_not_valid"
	MessageTokenExpired = "Token is invalid or expired"
)

// DefaultTimeout bounds every HTTP call issued by the client.
const DefaultTimeout = 20 * time.Second
