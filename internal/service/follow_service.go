package service

import (
	"context"

	"socialfeed/internal/models"
	"socialfeed/internal/repository"
)

// FollowService manages user and tag follows.
type FollowService struct {
	follows repository.FollowRepository
	users   repository.UserRepository
}

func NewFollowService(follows repository.FollowRepository, users repository.UserRepository) *FollowService {
	return &FollowService{follows: follows, users: users}
}

// FollowUser starts (or resumes) following targetID.
func (s *FollowService) FollowUser(ctx context.Context, followerID, targetID uint) (*models.Follow, error) {
	if followerID == targetID {
		return nil, models.NewValidationError("cannot follow yourself")
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return nil, err
	}
	follow := &models.Follow{FollowerID: followerID, TargetKind: models.FollowTargetUser, TargetID: targetID}
	if err := s.follows.Upsert(ctx, follow); err != nil {
		return nil, err
	}
	return follow, nil
}

func (s *FollowService) UnfollowUser(ctx context.Context, followerID, targetID uint) error {
	found, err := s.follows.Deactivate(ctx, &models.Follow{FollowerID: followerID, TargetKind: models.FollowTargetUser, TargetID: targetID})
	if err != nil {
		return err
	}
	if !found {
		return models.NewNotFoundError("Follow", targetID)
	}
	return nil
}

func (s *FollowService) FollowTag(ctx context.Context, followerID uint, tag string) (*models.Follow, error) {
	tag = models.NormalizeTag(tag)
	if tag == "" {
		return nil, models.NewValidationError("tag is required")
	}
	follow := &models.Follow{FollowerID: followerID, TargetKind: models.FollowTargetTag, TargetTag: tag}
	if err := s.follows.Upsert(ctx, follow); err != nil {
		return nil, err
	}
	return follow, nil
}

func (s *FollowService) UnfollowTag(ctx context.Context, followerID uint, tag string) error {
	tag = models.NormalizeTag(tag)
	if tag == "" {
		return models.NewValidationError("tag is required")
	}
	found, err := s.follows.Deactivate(ctx, &models.Follow{FollowerID: followerID, TargetKind: models.FollowTargetTag, TargetTag: tag})
	if err != nil {
		return err
	}
	if !found {
		return models.NewNotFoundError("Follow", tag)
	}
	return nil
}

// GetFollowedTags lists the tags followerID actively follows.
func (s *FollowService) GetFollowedTags(ctx context.Context, followerID uint) ([]string, error) {
	tags, err := s.follows.GetFollowedTags(ctx, followerID)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

func (s *FollowService) GetFollowCounts(ctx context.Context, userID uint) (*models.FollowCounts, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	followers, err := s.follows.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.follows.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.FollowCounts{UserID: userID, Followers: followers, Following: following}, nil
}
