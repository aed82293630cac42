// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a user account in Kisan Vikas.
// Fullname carries the display name; FullnameHindi is the optional
// Hindi-script variant shown when the app language is "hi".
type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Username      string         `gorm:"unique;not null" json:"username"`
	Fullname      string         `json:"fullname"`
	FullnameHindi string         `json:"fullname_hindi,omitempty"`
	Email         string         `gorm:"unique;not null" json:"email"`
	Password      string         `gorm:"not null" json:"-"`
	ProfilePic    *string        `json:"profile_pic"`
	Verified      bool           `gorm:"not null;default:false" json:"verified"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Posts         []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// PublicUser is the subset of user fields joined into posts and comments.
// It reads the users table but never exposes email, verification state, or
// anything else private to the account owner.
type PublicUser struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Username      string         `json:"username"`
	Fullname      string         `json:"fullname"`
	FullnameHindi string         `json:"fullname_hindi,omitempty"`
	ProfilePic    *string        `json:"profile_pic"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName maps the public projection onto the users table.
func (PublicUser) TableName() string { return "users" }
