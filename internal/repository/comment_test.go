package repository

import (
	"context"
	"testing"

	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/cache"
	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/database"
	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestCommentRepository_CreateInvalidatesFeedCache(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	cache.InitRedis(mr.Addr())
	// Point the package client at a dead address so later tests run uncached.
	t.Cleanup(func() { cache.InitRedis("127.0.0.1:1") })

	ctx := context.Background()
	user := models.User{Username: "ramesh", Email: "ramesh@example.com", Password: "x", Verified: true}
	require.NoError(t, db.Create(&user).Error)
	content := "wheat looking good"
	post := models.Post{Content: &content, UserID: user.ID}
	require.NoError(t, db.Create(&post).Error)

	require.NoError(t, mr.Set(cache.FeedKey, "[]"))

	repo := NewCommentRepository(db)
	require.NoError(t, repo.Create(ctx, &models.Comment{
		Content: "which variety?",
		UserID:  user.ID,
		PostID:  post.ID,
	}))

	assert.False(t, mr.Exists(cache.FeedKey),
		"cached feed carries comments_count and must be dropped on insert")
}
