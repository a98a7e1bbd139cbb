package repository

import (
	"context"

	"socialfeed/internal/models"
	"socialfeed/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetByIDsUnscoped includes soft-deleted users so authors of old posts
	// still resolve to a snapshot.
	GetByIDsUnscoped(ctx context.Context, ids []uint) ([]*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("create", "users")()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("User already exists")
		}
		return accessorError("create user", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	defer observability.TrackQuery("get_by_id", "users")()

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, storeError("get user", "User", id, err)
	}
	return &user, nil
}

func (r *userRepository) GetByIDsUnscoped(ctx context.Context, ids []uint) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	defer observability.TrackQuery("get_by_ids_unscoped", "users")()

	var users []*models.User
	if err := r.db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, accessorError("get users by ids", err)
	}
	return users, nil
}
