package entity

import (
	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	// RoleUnknown is the zero value: no profile row has been resolved yet.
	RoleUnknown UserRole = ""
)

// User is the identity the provider vouches for. The role is NOT part of it;
// roles live in the profiles table and are resolved separately.
type User struct {
	Id       uuid.UUID
	Email    string
	Metadata map[string]interface{}
}

// AuthState is the derived triple consumed by the route guards. Loading is
// true only while the initial session probe is in flight; a pending role
// lookup does not re-enter loading.
type AuthState struct {
	Loading bool
	User    *User
	Role    UserRole
}
