package service

import (
	"context"
	"strings"

	"socialfeed/internal/models"
	"socialfeed/internal/repository"
)

const (
	maxTextLen = 5000
	maxTags    = 10
)

type PostService struct {
	posts repository.PostRepository
}

type CreatePostInput struct {
	UserID uint
	Text   string
	Tags   []string
	Status models.PostStatus
}

func NewPostService(posts repository.PostRepository) *PostService {
	return &PostService{posts: posts}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("text is required")
	}
	if len(text) > maxTextLen {
		return nil, models.NewValidationError("text too long (max 5000 characters)")
	}

	status := in.Status
	switch status {
	case "":
		status = models.PostStatusPublished
	case models.PostStatusDraft, models.PostStatusPublished, models.PostStatusArchived:
	default:
		return nil, models.NewValidationError("invalid status")
	}

	tags := models.NormalizeTags(in.Tags)
	if len(tags) > maxTags {
		return nil, models.NewValidationError("too many tags (max 10)")
	}
	for _, tag := range tags {
		if len(tag) > 64 {
			return nil, models.NewValidationError("tag too long (max 64 characters)")
		}
	}

	post := &models.Post{
		UserID: in.UserID,
		Kind:   models.PostKindOriginal,
		Text:   &text,
		Tags:   tags,
		Status: status,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// CreateRepost reposts originalID for userID. Reposting a repost targets
// its original. The repost starts with zero counters of its own.
func (s *PostService) CreateRepost(ctx context.Context, userID, originalID uint) (*models.Post, error) {
	original, err := s.posts.GetByID(ctx, originalID)
	if err != nil {
		return nil, err
	}
	if original.IsRepost() && original.OriginalPostID != nil {
		if original, err = s.posts.GetByID(ctx, *original.OriginalPostID); err != nil {
			return nil, err
		}
	}
	if !original.IsVisible() {
		return nil, models.NewNotFoundError("Post", originalID)
	}

	repost := &models.Post{
		UserID:         userID,
		Kind:           models.PostKindRepost,
		OriginalPostID: &original.ID,
		Status:         models.PostStatusPublished,
	}
	if err := s.posts.CreateRepost(ctx, repost); err != nil {
		return nil, err
	}
	return repost, nil
}

// DeletePost soft-deletes a post owned by userID.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewUnauthorizedError("not allowed to delete this post")
	}
	if post.IsRepost() && post.OriginalPostID != nil {
		return s.posts.DeleteRepost(ctx, postID, *post.OriginalPostID)
	}
	return s.posts.SoftDelete(ctx, postID)
}
