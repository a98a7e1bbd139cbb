package repository

import (
	"context"
	"errors"
	"time"

	"socialfeed/internal/models"
	"socialfeed/internal/observability"

	"gorm.io/gorm"
)

// InteractionRepository stores likes and favorites and answers the
// per-viewer existence check used to annotate feeds.
type InteractionRepository interface {
	// ActivePostIDs returns the subset of postIDs userID has an active
	// interaction of kind with.
	ActivePostIDs(ctx context.Context, userID uint, kind models.InteractionKind, postIDs []uint) ([]uint, error)
	// Set activates or deactivates an interaction and moves the post's
	// counter with it. It reports whether the state changed.
	Set(ctx context.Context, userID, postID uint, kind models.InteractionKind, active bool) (bool, error)
}

type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

func counterFor(kind models.InteractionKind) CounterColumn {
	if kind == models.InteractionFavorite {
		return CounterFavorites
	}
	return CounterLikes
}

func (r *interactionRepository) ActivePostIDs(ctx context.Context, userID uint, kind models.InteractionKind, postIDs []uint) ([]uint, error) {
	if userID == 0 || len(postIDs) == 0 {
		return nil, nil
	}
	defer observability.TrackQuery("active_post_ids", "interactions")()

	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Interaction{}).
		Where("user_id = ? AND kind = ? AND status = ? AND post_id IN ?", userID, kind, models.InteractionActive, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, accessorError("get interactions", err)
	}
	return ids, nil
}

func (r *interactionRepository) Set(ctx context.Context, userID, postID uint, kind models.InteractionKind, active bool) (bool, error) {
	defer observability.TrackQuery("set", "interactions")()

	want := models.InteractionInactive
	delta := int64(-1)
	if active {
		want = models.InteractionActive
		delta = 1
	}

	changed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Interaction
		err := tx.Where("user_id = ? AND post_id = ? AND kind = ?", userID, postID, kind).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if !active {
				return nil
			}
			if err := tx.Create(&models.Interaction{UserID: userID, PostID: postID, Kind: kind, Status: want}).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		case existing.Status == want:
			return nil
		default:
			if err := tx.Model(&existing).Updates(map[string]interface{}{
				"status":     want,
				"updated_at": time.Now().UTC(),
			}).Error; err != nil {
				return err
			}
		}
		changed = true
		return adjustCounter(tx, postID, counterFor(kind), delta)
	})
	if err != nil {
		return false, accessorError("set interaction", err)
	}
	return changed, nil
}
