package repository

import (
	"context"
	"time"

	"socialfeed/internal/models"
	"socialfeed/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository is the social graph accessor.
type FollowRepository interface {
	// GetFollowedAuthorIDs returns the users viewerID actively follows, in
	// no particular order. An unknown viewer is NOT_FOUND; an empty result
	// is not an error.
	GetFollowedAuthorIDs(ctx context.Context, viewerID uint) ([]uint, error)
	GetFollowedTags(ctx context.Context, viewerID uint) ([]string, error)
	// Upsert activates the relationship, reactivating an inactive row
	// rather than inserting a second one.
	Upsert(ctx context.Context, follow *models.Follow) error
	// Deactivate flips an active relationship to inactive and reports
	// whether one was found.
	Deactivate(ctx context.Context, follow *models.Follow) (bool, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) GetFollowedAuthorIDs(ctx context.Context, viewerID uint) ([]uint, error) {
	defer observability.TrackQuery("get_followed_author_ids", "follows")()
	ctx, span := observability.TraceRepositoryMethod(ctx, "GetFollowedAuthorIDs", "follows")
	defer span.End()

	// One round trip: the viewer row is always present when the viewer
	// exists, with a NULL target when nothing is followed.
	var rows []struct {
		ViewerID uint
		TargetID *uint
	}
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id AS viewer_id, follows.target_id AS target_id").
		Joins("LEFT JOIN follows ON follows.follower_id = users.id AND follows.target_kind = ? AND follows.status = ?",
			models.FollowTargetUser, models.FollowStatusActive).
		Where("users.id = ? AND users.deleted_at IS NULL", viewerID).
		Scan(&rows).Error
	if err != nil {
		return nil, accessorError("get followed authors", err)
	}
	if len(rows) == 0 {
		return nil, models.NewNotFoundError("User", viewerID)
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		if row.TargetID != nil {
			ids = append(ids, *row.TargetID)
		}
	}
	return ids, nil
}

func (r *followRepository) GetFollowedTags(ctx context.Context, viewerID uint) ([]string, error) {
	defer observability.TrackQuery("get_followed_tags", "follows")()

	var tags []string
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND target_kind = ? AND status = ?", viewerID, models.FollowTargetTag, models.FollowStatusActive).
		Order("target_tag ASC").
		Pluck("target_tag", &tags).Error
	if err != nil {
		return nil, accessorError("get followed tags", err)
	}
	return tags, nil
}

func targetScope(follow *models.Follow) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("follower_id = ? AND target_kind = ? AND target_id = ? AND target_tag = ?",
			follow.FollowerID, follow.TargetKind, follow.TargetID, follow.TargetTag)
	}
}

func (r *followRepository) Upsert(ctx context.Context, follow *models.Follow) error {
	defer observability.TrackQuery("upsert", "follows")()

	follow.Status = models.FollowStatusActive
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "follower_id"}, {Name: "target_kind"}, {Name: "target_id"}, {Name: "target_tag"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"status":     models.FollowStatusActive,
				"updated_at": time.Now().UTC(),
			}),
		}).Create(follow).Error; err != nil {
			return err
		}
		// Reload: on conflict the returned id is driver dependent.
		follow.ID = 0
		return tx.Scopes(targetScope(follow)).First(follow).Error
	})
	return accessorError("upsert follow", err)
}

func (r *followRepository) Deactivate(ctx context.Context, follow *models.Follow) (bool, error) {
	defer observability.TrackQuery("deactivate", "follows")()

	result := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Scopes(targetScope(follow)).
		Where("status = ?", models.FollowStatusActive).
		Updates(map[string]interface{}{
			"status":     models.FollowStatusInactive,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, accessorError("deactivate follow", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	defer observability.TrackQuery("count_followers", "follows")()

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("target_kind = ? AND target_id = ? AND status = ?", models.FollowTargetUser, userID, models.FollowStatusActive).
		Count(&count).Error
	return count, accessorError("count followers", err)
}

func (r *followRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	defer observability.TrackQuery("count_following", "follows")()

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND target_kind = ? AND status = ?", userID, models.FollowTargetUser, models.FollowStatusActive).
		Count(&count).Error
	return count, accessorError("count following", err)
}
