package contract

import (
	"context"

	"tutor-cerdas-console/internal/entity"

	"github.com/google/uuid"
)

type ProfileRepository interface {
	// GetRole returns the stored role for a user id. A missing row is an
	// error; callers decide the fallback.
	GetRole(ctx context.Context, id uuid.UUID) (entity.UserRole, error)

	// Ensure creates the profile row once with the least-privileged role.
	// It never updates an existing row, so an out-of-band admin grant
	// survives every login.
	Ensure(ctx context.Context, id uuid.UUID, fullName *string) error
}
