package procure

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// TokenPair holds the bearer tokens issued by the backend.
type TokenPair struct {
	Access  string `json:"access,omitempty"`
	Refresh string `json:"refresh,omitempty"`
}

// Permission is a single capability entry granted through a role.
type Permission struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Role associates a named role with its permissions.
type Role struct {
	ID     int          `json:"id,omitempty"`
	Name   string       `json:"name,omitempty"`
	Access []Permission `json:"access,omitempty"`
}

// Company identifies a tenant the user belongs to.
type Company struct {
	ClientID int64  `json:"client_id,omitempty"`
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
}

// User is the profile sub-object nested in the authentication blob.
type User struct {
	ID          int       `json:"id,omitempty"`
	UserName    string    `json:"user_name,omitempty"`
	FirstName   string    `json:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	ProfilePic  string    `json:"profile_pic,omitempty"`
	IsActive    bool      `json:"is_active,omitempty"`
	Role        []Role    `json:"role,omitempty"`
	Company     []Company `json:"company,omitempty"`
}

// AuthInfo is the persisted authentication blob. It is either absent (logged
// out) or populated with at least an access token and IsAuthenticated set;
// partial shapes are never treated as authenticated. The blob is created by
// the session coordinator on first OTP verification, overwritten on
// re-verification and deleted on logout. All other components read it only.
type AuthInfo struct {
	IsAuthenticated   bool            `json:"isAuthenticated"`
	Access            string          `json:"access,omitempty"`
	Refresh           string          `json:"refresh,omitempty"`
	AuthToken         *TokenPair      `json:"auth_token,omitempty"`
	ModulePermissions json.RawMessage `json:"module_permissions,omitempty"`
	ClientID          json.Number     `json:"client_id,omitempty"`
	CompanyID         json.Number     `json:"company_id,omitempty"`
	User              *User           `json:"user,omitempty"`
}

// AccessToken returns the bearer token. Producers emit either a nested
// auth_token pair or top-level token fields; both shapes are accepted as a
// compatibility shim, with the nested shape taking precedence.
func (a *AuthInfo) AccessToken() string {
	if a == nil {
		return ""
	}
	if a.AuthToken != nil && a.AuthToken.Access != "" {
		return a.AuthToken.Access
	}
	return a.Access
}

// RefreshToken returns the refresh token, honoring the same shape fallback as AccessToken.
func (a *AuthInfo) RefreshToken() string {
	if a == nil {
		return ""
	}
	if a.AuthToken != nil && a.AuthToken.Refresh != "" {
		return a.AuthToken.Refresh
	}
	return a.Refresh
}

// Authenticated reports whether the blob represents a usable session.
// A blob carrying tokens without the authenticated marker, or the marker
// without a token, does not qualify.
func (a *AuthInfo) Authenticated() bool {
	return a != nil && a.IsAuthenticated && a.AccessToken() != ""
}

// AccountHeader derives the tenant header value, the base64 encoding of
// "<client_id>|<company_id>". The second result is false unless both tenant
// identifiers are present.
func (a *AuthInfo) AccountHeader() (string, bool) {
	if a == nil || a.ClientID == "" || a.CompanyID == "" {
		return "", false
	}
	raw := fmt.Sprintf("%s|%s", a.ClientID, a.CompanyID)
	return base64.StdEncoding.EncodeToString([]byte(raw)), true
}
