package service

import (
	"context"
	"testing"

	"socialfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowService_FollowUser(t *testing.T) {
	ctx := context.Background()

	t.Run("self follow rejected", func(t *testing.T) {
		follows := followsOf()
		follows.upsertFn = func(_ context.Context, _ *models.Follow) error {
			t.Fatal("must not persist a self follow")
			return nil
		}
		_, err := NewFollowService(follows, noopUserRepo()).FollowUser(ctx, 3, 3)
		assert.True(t, models.IsValidation(err))
	})

	t.Run("unknown target", func(t *testing.T) {
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		}
		_, err := NewFollowService(followsOf(), users).FollowUser(ctx, 1, 2)
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("upserts active user follow", func(t *testing.T) {
		var got *models.Follow
		follows := followsOf()
		follows.upsertFn = func(_ context.Context, f *models.Follow) error {
			got = f
			f.Status = models.FollowStatusActive
			return nil
		}
		follow, err := NewFollowService(follows, noopUserRepo()).FollowUser(ctx, 1, 2)
		require.NoError(t, err)
		assert.Same(t, got, follow)
		assert.Equal(t, models.FollowTargetUser, follow.TargetKind)
		assert.Equal(t, uint(2), follow.TargetID)
	})
}

func TestFollowService_Unfollow(t *testing.T) {
	ctx := context.Background()
	follows := followsOf()
	follows.deactivateFn = func(_ context.Context, _ *models.Follow) (bool, error) { return false, nil }
	svc := NewFollowService(follows, noopUserRepo())

	assert.True(t, models.IsNotFound(svc.UnfollowUser(ctx, 1, 2)))
	assert.True(t, models.IsNotFound(svc.UnfollowTag(ctx, 1, "go")))
	assert.True(t, models.IsValidation(svc.UnfollowTag(ctx, 1, " # ")))
}

func TestFollowService_FollowTagNormalizes(t *testing.T) {
	var got *models.Follow
	follows := followsOf()
	follows.upsertFn = func(_ context.Context, f *models.Follow) error {
		got = f
		return nil
	}
	_, err := NewFollowService(follows, noopUserRepo()).FollowTag(context.Background(), 1, " #GoLang")
	require.NoError(t, err)
	assert.Equal(t, "golang", got.TargetTag)
	assert.Equal(t, models.FollowTargetTag, got.TargetKind)
}

func TestFollowService_GetFollowCounts(t *testing.T) {
	follows := followsOf()
	follows.countFollowersFn = func(_ context.Context, _ uint) (int64, error) { return 4, nil }
	follows.countFollowingFn = func(_ context.Context, _ uint) (int64, error) { return 2, nil }

	counts, err := NewFollowService(follows, noopUserRepo()).GetFollowCounts(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, &models.FollowCounts{UserID: 9, Followers: 4, Following: 2}, counts)

	tags, err := NewFollowService(follows, noopUserRepo()).GetFollowedTags(context.Background(), 9)
	require.NoError(t, err)
	assert.NotNil(t, tags)
}
