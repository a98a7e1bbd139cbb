package server

import (
	"context"

	"socialfeed/internal/models"
	"socialfeed/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockFeedReader is a mock of the FeedReader interface
type MockFeedReader struct {
	mock.Mock
}

func (m *MockFeedReader) GetHomeFeed(ctx context.Context, viewerID uint, req models.PageRequest) (*models.HomeFeed, error) {
	args := m.Called(ctx, viewerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HomeFeed), args.Error(1)
}

func (m *MockFeedReader) GetTimeline(ctx context.Context, viewerID uint, req models.CursorRequest) (*models.TimelinePage, error) {
	args := m.Called(ctx, viewerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimelinePage), args.Error(1)
}

func (m *MockFeedReader) GetRankedFeed(ctx context.Context, viewerID uint, req models.PageRequest) ([]*models.Post, error) {
	args := m.Called(ctx, viewerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockFeedReader) GetCombinedFeed(ctx context.Context, viewerID uint, req models.PageRequest) (*models.CombinedFeed, error) {
	args := m.Called(ctx, viewerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CombinedFeed), args.Error(1)
}

func (m *MockFeedReader) GetTagFeed(ctx context.Context, tag string, req models.PageRequest) (*models.HomeFeed, error) {
	args := m.Called(ctx, tag, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HomeFeed), args.Error(1)
}

func (m *MockFeedReader) GetPostDetail(ctx context.Context, viewerID, postID uint) (*models.AnnotatedPost, error) {
	args := m.Called(ctx, viewerID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnnotatedPost), args.Error(1)
}

// MockPostWriter is a mock of the PostWriter interface
type MockPostWriter struct {
	mock.Mock
}

func (m *MockPostWriter) CreatePost(ctx context.Context, in service.CreatePostInput) (*models.Post, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostWriter) CreateRepost(ctx context.Context, userID, originalID uint) (*models.Post, error) {
	args := m.Called(ctx, userID, originalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostWriter) DeletePost(ctx context.Context, userID, postID uint) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

// MockInteractionWriter is a mock of the InteractionWriter interface
type MockInteractionWriter struct {
	mock.Mock
}

func (m *MockInteractionWriter) Like(ctx context.Context, userID, postID uint) error {
	return m.Called(ctx, userID, postID).Error(0)
}

func (m *MockInteractionWriter) Unlike(ctx context.Context, userID, postID uint) error {
	return m.Called(ctx, userID, postID).Error(0)
}

func (m *MockInteractionWriter) Favorite(ctx context.Context, userID, postID uint) error {
	return m.Called(ctx, userID, postID).Error(0)
}

func (m *MockInteractionWriter) Unfavorite(ctx context.Context, userID, postID uint) error {
	return m.Called(ctx, userID, postID).Error(0)
}

// MockFollowManager is a mock of the FollowManager interface
type MockFollowManager struct {
	mock.Mock
}

func (m *MockFollowManager) FollowUser(ctx context.Context, followerID, targetID uint) (*models.Follow, error) {
	args := m.Called(ctx, followerID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Follow), args.Error(1)
}

func (m *MockFollowManager) UnfollowUser(ctx context.Context, followerID, targetID uint) error {
	return m.Called(ctx, followerID, targetID).Error(0)
}

func (m *MockFollowManager) FollowTag(ctx context.Context, followerID uint, tag string) (*models.Follow, error) {
	args := m.Called(ctx, followerID, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Follow), args.Error(1)
}

func (m *MockFollowManager) UnfollowTag(ctx context.Context, followerID uint, tag string) error {
	return m.Called(ctx, followerID, tag).Error(0)
}

func (m *MockFollowManager) GetFollowedTags(ctx context.Context, followerID uint) ([]string, error) {
	args := m.Called(ctx, followerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFollowManager) GetFollowCounts(ctx context.Context, userID uint) (*models.FollowCounts, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FollowCounts), args.Error(1)
}

var (
	_ FeedReader        = (*MockFeedReader)(nil)
	_ PostWriter        = (*MockPostWriter)(nil)
	_ InteractionWriter = (*MockInteractionWriter)(nil)
	_ FollowManager     = (*MockFollowManager)(nil)
)
