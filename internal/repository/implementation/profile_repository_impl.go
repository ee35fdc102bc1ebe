package implementation

import (
	"context"
	"fmt"
	"time"

	"tutor-cerdas-console/internal/entity"
	"tutor-cerdas-console/internal/model"
	"tutor-cerdas-console/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepositoryImpl struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) contract.ProfileRepository {
	return &ProfileRepositoryImpl{db: db}
}

func (r *ProfileRepositoryImpl) GetRole(ctx context.Context, id uuid.UUID) (entity.UserRole, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).
		Select("role").
		Where("id = ?", id).
		Take(&profile).Error
	if err != nil {
		return entity.RoleUnknown, fmt.Errorf("fetch role for %s: %w", id, err)
	}

	switch entity.UserRole(profile.Role) {
	case entity.UserRoleAdmin:
		return entity.UserRoleAdmin, nil
	default:
		// Unknown values degrade to the least-privileged role.
		return entity.UserRoleUser, nil
	}
}

func (r *ProfileRepositoryImpl) Ensure(ctx context.Context, id uuid.UUID, fullName *string) error {
	profile := model.Profile{
		Id:        id,
		Role:      string(entity.UserRoleUser),
		FullName:  fullName,
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(&profile).Error
}
