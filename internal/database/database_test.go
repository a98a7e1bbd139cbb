package database

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"socialfeed/internal/config"
	"socialfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDialector(t *testing.T) {
	d, err := Dialector(&config.Config{DBDriver: "postgres", DBHost: "db", DBPort: "5432"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = Dialector(&config.Config{DBDriver: "sqlite", DBSQLitePath: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	_, err = Dialector(&config.Config{DBDriver: "sqlite"})
	assert.Error(t, err)

	_, err = Dialector(&config.Config{DBDriver: "mysql"})
	assert.Error(t, err)
}

func TestConnect_SQLiteMigratesSchema(t *testing.T) {
	db, err := Connect(&config.Config{Env: "test", DBDriver: "sqlite", DBSQLitePath: ":memory:"})
	require.NoError(t, err)

	for _, model := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(model), "missing table for %T", model)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	user := &models.User{Username: "alice"}
	require.NoError(t, db.Create(user).Error)
	post := &models.Post{UserID: user.ID, Tags: []string{"#Go", "go", " Feeds "}}
	require.NoError(t, db.Create(post).Error)

	var loaded models.Post
	require.NoError(t, db.Preload("TagRows").First(&loaded, post.ID).Error)
	assert.Equal(t, []string{"go", "feeds"}, loaded.Tags)
	assert.Equal(t, models.PostStatusPublished, loaded.Status)
	assert.Equal(t, models.PostKindOriginal, loaded.Kind)
	assert.Equal(t, time.UTC, user.CreatedAt.Location())
	assert.Equal(t, time.UTC, post.CreatedAt.Location())
}

func TestCustomGormLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	l := NewGormLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Empty(t, buf.String(), "fast queries are not logged at warn level")

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 2", 0 }, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 3", 0 }, errors.New("boom"))
	assert.Contains(t, buf.String(), "GORM query error")
	assert.Contains(t, buf.String(), "SELECT 3")

	buf.Reset()
	l.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) { return "SELECT 4", 2 }, nil)
	assert.Contains(t, buf.String(), "GORM slow query")

	buf.Reset()
	silent := l.LogMode(logger.Silent)
	silent.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 5", 0 }, errors.New("boom"))
	assert.Empty(t, buf.String())
}
