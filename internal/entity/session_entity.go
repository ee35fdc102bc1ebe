package entity

import (
	"time"
)

// Session is the authenticated identity plus the provider-issued tokens.
// At most one active session exists per client; the id is the value of the
// session cookie, not anything the provider issued.
type Session struct {
	Id           string
	AccessToken  string
	RefreshToken string
	User         User
	ExpiresAt    time.Time
}
