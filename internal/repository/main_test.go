package repository

import (
	"testing"
	"time"

	"socialfeed/internal/config"
	"socialfeed/internal/database"
	"socialfeed/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// baseTime is a fixed UTC instant so ordering assertions do not depend on the clock.
var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// newTestDB opens a fresh migrated in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(&config.Config{Env: "test", DBDriver: "sqlite", DBSQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// setupMockDB creates a GORM *gorm.DB backed by sqlmock for unit tests.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, DisplayName: username + " display"}
	require.NoError(t, db.Create(u).Error)
	return u
}

type postOpts struct {
	age      time.Duration
	likes    int64
	comments int64
	status   models.PostStatus
	tags     []string
	deleted  bool
}

func createPost(t *testing.T, db *gorm.DB, author *models.User, opts postOpts) *models.Post {
	t.Helper()
	text := "post by " + author.Username
	p := &models.Post{
		UserID:        author.ID,
		Text:          &text,
		Tags:          opts.tags,
		Status:        opts.status,
		LikesCount:    opts.likes,
		CommentsCount: opts.comments,
		CreatedAt:     baseTime.Add(-opts.age),
	}
	require.NoError(t, db.Create(p).Error)
	if opts.deleted {
		require.NoError(t, db.Delete(p).Error)
	}
	return p
}

func postIDs(posts []*models.Post) []uint {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}
