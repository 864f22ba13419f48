package session

import (
	"encoding/json"

	"github.com/constrogen/procure"
)

// AuthState is the request-authorization subset of the session, derived from
// the persisted blob by the coordinator. Its zero value is the logged-out
// shape.
type AuthState struct {
	Access            string
	Refresh           string
	ModulePermissions json.RawMessage
	IsAuthenticated   bool
	Loading           bool
	Error             string
}

func (s AuthState) clone() AuthState {
	if s.ModulePermissions != nil {
		s.ModulePermissions = append(json.RawMessage(nil), s.ModulePermissions...)
	}
	return s
}

// cloneUser copies the profile so callers cannot mutate coordinator state
// through shared slices.
func cloneUser(user procure.User) procure.User {
	if user.Role != nil {
		roles := make([]procure.Role, len(user.Role))
		for i, role := range user.Role {
			if role.Access != nil {
				role.Access = append([]procure.Permission(nil), role.Access...)
			}
			roles[i] = role
		}
		user.Role = roles
	}
	if user.Company != nil {
		user.Company = append([]procure.Company(nil), user.Company...)
	}
	return user
}
