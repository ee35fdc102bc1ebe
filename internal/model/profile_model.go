package model

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the authorization record keyed by the identity provider's user
// id. The role column is the single source of truth for authorization; it is
// never derived from anything the client sends.
type Profile struct {
	Id        uuid.UUID `gorm:"column:id;primaryKey"`
	Role      string    `gorm:"column:role"`
	FullName  *string   `gorm:"column:full_name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
