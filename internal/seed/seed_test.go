package seed

import (
	"testing"

	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/database"
	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSeeder_Run(t *testing.T) {
	db := setupSeedDB(t)
	require.NoError(t, NewSeeder(db).Run(5, 20, false))

	var userCount, postCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	assert.Equal(t, int64(5), userCount)
	assert.Equal(t, int64(20), postCount)

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	seen := make(map[string]bool)
	for _, u := range users {
		assert.True(t, u.Verified, "seeded users must be verified")
		assert.False(t, seen[u.Username], "usernames must be unique")
		seen[u.Username] = true
	}

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	for _, p := range posts {
		hasContent := p.Content != nil && *p.Content != ""
		hasImage := p.ImageURL != nil && *p.ImageURL != ""
		assert.True(t, hasContent || hasImage, "every post needs content or an image")
	}
}

func TestSeeder_ClearAll(t *testing.T) {
	db := setupSeedDB(t)
	seeder := NewSeeder(db)
	require.NoError(t, seeder.Run(3, 10, false))
	require.NoError(t, seeder.ClearAll())

	for _, model := range []interface{}{
		&models.User{}, &models.Post{}, &models.Comment{}, &models.SavedPost{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestSeeder_SavedPairsUnique(t *testing.T) {
	db := setupSeedDB(t)
	require.NoError(t, NewSeeder(db).Run(8, 15, false))

	type pair struct{ UserID, PostID uint }
	var rows []models.SavedPost
	require.NoError(t, db.Find(&rows).Error)
	seen := make(map[pair]bool)
	for _, row := range rows {
		p := pair{row.UserID, row.PostID}
		assert.False(t, seen[p], "duplicate saved pair user=%d post=%d", row.UserID, row.PostID)
		seen[p] = true
	}
}
