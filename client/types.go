package client

import "time"

// User mirrors the server's user payload.
type User struct {
	ID            uint      `json:"id"`
	Username      string    `json:"username"`
	Fullname      string    `json:"fullname"`
	FullnameHindi string    `json:"fullname_hindi,omitempty"`
	Email         string    `json:"email"`
	ProfilePic    *string   `json:"profile_pic"`
	Verified      bool      `json:"verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PublicUser is the author projection joined into posts and comments; the
// server never sends private account fields here.
type PublicUser struct {
	ID            uint    `json:"id"`
	Username      string  `json:"username"`
	Fullname      string  `json:"fullname"`
	FullnameHindi string  `json:"fullname_hindi,omitempty"`
	ProfilePic    *string `json:"profile_pic"`
}

// Post mirrors the server's post payload. IsSaved and CommentsCount are
// computed per requesting user.
type Post struct {
	ID            uint       `json:"id"`
	Content       *string    `json:"content"`
	ContentHindi  *string    `json:"content_hindi,omitempty"`
	ImageURL      *string    `json:"image_url"`
	UserID        uint       `json:"user_id"`
	User          PublicUser `json:"user"`
	IsSaved       bool       `json:"is_saved"`
	CommentsCount int        `json:"comments_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Comment mirrors the server's comment payload.
type Comment struct {
	ID        uint       `json:"id"`
	Content   string     `json:"content"`
	UserID    uint       `json:"user_id"`
	PostID    uint       `json:"post_id"`
	User      PublicUser `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
}

// UploadObject describes a stored upload returned by the server.
type UploadObject struct {
	Bucket      string `json:"bucket"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	URL         string `json:"url"`
	WebPURL     string `json:"webp_url,omitempty"`
}

// errorBody is the server's JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
