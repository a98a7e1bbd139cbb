package repository

import (
	"context"
	"testing"

	"socialfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_GetFollowedAuthorIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	viewer := createUser(t, db, "viewer")
	a := createUser(t, db, "author_a")
	b := createUser(t, db, "author_b")
	c := createUser(t, db, "author_c")

	t.Run("unknown viewer is not found", func(t *testing.T) {
		_, err := repo.GetFollowedAuthorIDs(ctx, 9999)
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("no follows is an empty set", func(t *testing.T) {
		ids, err := repo.GetFollowedAuthorIDs(ctx, viewer.ID)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("only active user follows count", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, &models.Follow{FollowerID: viewer.ID, TargetKind: models.FollowTargetUser, TargetID: a.ID}))
		require.NoError(t, repo.Upsert(ctx, &models.Follow{FollowerID: viewer.ID, TargetKind: models.FollowTargetUser, TargetID: b.ID}))
		require.NoError(t, repo.Upsert(ctx, &models.Follow{FollowerID: viewer.ID, TargetKind: models.FollowTargetUser, TargetID: c.ID}))
		require.NoError(t, repo.Upsert(ctx, &models.Follow{FollowerID: viewer.ID, TargetKind: models.FollowTargetTag, TargetTag: "golang"}))

		found, err := repo.Deactivate(ctx, &models.Follow{FollowerID: viewer.ID, TargetKind: models.FollowTargetUser, TargetID: c.ID})
		require.NoError(t, err)
		assert.True(t, found)

		ids, err := repo.GetFollowedAuthorIDs(ctx, viewer.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{a.ID, b.ID}, ids)
	})

	t.Run("deleted viewer is not found", func(t *testing.T) {
		gone := createUser(t, db, "gone")
		require.NoError(t, db.Delete(gone).Error)

		_, err := repo.GetFollowedAuthorIDs(ctx, gone.ID)
		assert.True(t, models.IsNotFound(err))
	})
}

func TestFollowRepository_RefollowReactivatesSingleRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	viewer := createUser(t, db, "viewer")
	target := createUser(t, db, "target")
	key := func() *models.Follow {
		return &models.Follow{FollowerID: viewer.ID, TargetKind: models.FollowTargetUser, TargetID: target.ID}
	}

	first := key()
	require.NoError(t, repo.Upsert(ctx, first))

	found, err := repo.Deactivate(ctx, key())
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.Deactivate(ctx, key())
	require.NoError(t, err)
	assert.False(t, found, "already inactive")

	again := key()
	require.NoError(t, repo.Upsert(ctx, again))
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, models.FollowStatusActive, again.Status)

	var rows []models.Follow
	require.NoError(t, db.Where("follower_id = ? AND target_id = ?", viewer.ID, target.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, models.FollowStatusActive, rows[0].Status)
}

func TestFollowRepository_CountsAndTags(t *testing.T) {
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	require.NoError(t, repo.Upsert(ctx, &models.Follow{FollowerID: bob.ID, TargetKind: models.FollowTargetUser, TargetID: alice.ID}))
	require.NoError(t, repo.Upsert(ctx, &models.Follow{FollowerID: carol.ID, TargetKind: models.FollowTargetUser, TargetID: alice.ID}))
	require.NoError(t, repo.Upsert(ctx, &models.Follow{FollowerID: alice.ID, TargetKind: models.FollowTargetUser, TargetID: bob.ID}))
	require.NoError(t, repo.Upsert(ctx, &models.Follow{FollowerID: alice.ID, TargetKind: models.FollowTargetTag, TargetTag: "music"}))
	require.NoError(t, repo.Upsert(ctx, &models.Follow{FollowerID: alice.ID, TargetKind: models.FollowTargetTag, TargetTag: "art"}))
	_, err := repo.Deactivate(ctx, &models.Follow{FollowerID: carol.ID, TargetKind: models.FollowTargetUser, TargetID: alice.ID})
	require.NoError(t, err)

	followers, err := repo.CountFollowers(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), followers)

	following, err := repo.CountFollowing(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), following)

	tags, err := repo.GetFollowedTags(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"art", "music"}, tags)
}
