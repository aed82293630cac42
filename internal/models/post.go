// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a post in the Kisan Vikas feed.
// Content and ImageURL are both nullable; a post must carry at least
// one of them (enforced by the service layer, not the schema).
type Post struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Content      *string `gorm:"type:text" json:"content"`
	ContentHindi *string `gorm:"type:text" json:"content_hindi,omitempty"`
	ImageURL     *string `json:"image_url"`
	UserID       uint    `gorm:"not null;index" json:"user_id"`
	// User is the public projection of the author; private account fields
	// never ride along into feed responses.
	User PublicUser `gorm:"foreignKey:UserID" json:"user"`
	// IsSaved indicates whether the current requesting user saved this post (computed)
	IsSaved bool `gorm:"->" json:"is_saved"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int            `gorm:"->" json:"comments_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
