// Package repository implements the data access layer for the application.
package repository

import (
	"context"

	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SavedPostRepository defines interface for saved-post (bookmark) operations
type SavedPostRepository interface {
	Save(ctx context.Context, userID, postID uint) error
	Unsave(ctx context.Context, userID, postID uint) error
	IsSaved(ctx context.Context, userID, postID uint) (bool, error)
}

type savedPostRepository struct {
	db *gorm.DB
}

// NewSavedPostRepository creates a new SavedPostRepository
func NewSavedPostRepository(db *gorm.DB) SavedPostRepository {
	return &savedPostRepository{db: db}
}

// Save inserts the bookmark row if it does not already exist. ON CONFLICT DO
// NOTHING makes concurrent saves of the same post race-free.
func (r *savedPostRepository) Save(ctx context.Context, userID, postID uint) error {
	saved := models.SavedPost{UserID: userID, PostID: postID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).
		Create(&saved).Error
}

// Unsave hard-deletes the bookmark row. Deleting a row that does not exist is
// a no-op, matching the toggle semantics.
func (r *savedPostRepository) Unsave(ctx context.Context, userID, postID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.SavedPost{}).Error
}

func (r *savedPostRepository) IsSaved(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SavedPost{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
