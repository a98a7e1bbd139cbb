package service

import (
	"context"

	"socialfeed/internal/models"
	"socialfeed/internal/repository"
)

// InteractionService records likes and favorites. Repeating an action is
// a no-op, so counters move once per state change.
type InteractionService struct {
	interactions repository.InteractionRepository
	posts        repository.PostRepository
}

func NewInteractionService(interactions repository.InteractionRepository, posts repository.PostRepository) *InteractionService {
	return &InteractionService{interactions: interactions, posts: posts}
}

func (s *InteractionService) Like(ctx context.Context, userID, postID uint) error {
	return s.set(ctx, userID, postID, models.InteractionLike, true)
}

func (s *InteractionService) Unlike(ctx context.Context, userID, postID uint) error {
	return s.set(ctx, userID, postID, models.InteractionLike, false)
}

func (s *InteractionService) Favorite(ctx context.Context, userID, postID uint) error {
	return s.set(ctx, userID, postID, models.InteractionFavorite, true)
}

func (s *InteractionService) Unfavorite(ctx context.Context, userID, postID uint) error {
	return s.set(ctx, userID, postID, models.InteractionFavorite, false)
}

func (s *InteractionService) set(ctx context.Context, userID, postID uint, kind models.InteractionKind, active bool) error {
	if active {
		post, err := s.posts.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		if !post.IsVisible() {
			return models.NewNotFoundError("Post", postID)
		}
	} else if err := s.requireExists(ctx, postID); err != nil {
		return err
	}
	_, err := s.interactions.Set(ctx, userID, postID, kind, active)
	return err
}

// requireExists accepts deleted and unpublished posts, so undo can drain
// the counters of posts that left the feeds.
func (s *InteractionService) requireExists(ctx context.Context, postID uint) error {
	found, err := s.posts.GetByIDsUnscoped(ctx, []uint{postID})
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return models.NewNotFoundError("Post", postID)
	}
	return nil
}
