// Package client is the Go client for the Kisan Vikas API. It reproduces the
// pattern every app screen shared: typed API calls, fetch-on-mount stores,
// change-feed-triggered refetch with debounce, and optimistic local patches.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// APIError carries the server's JSON error body alongside the HTTP status.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to one Kisan Vikas server. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// New returns a Client for the given base URL (scheme + host, no trailing slash).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken installs the session token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current session token, empty when logged out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, body any, dest any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var errBody errorBody
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &APIError{Status: resp.StatusCode, Code: errBody.Code, Message: errBody.Error}
	}

	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// AuthResponse is the token+user pair returned by login and OTP verification.
type AuthResponse struct {
	Token string      `json:"token"`
	User  User `json:"user"`
}

// Signup registers an account. The server issues a verification code; the
// session starts only after VerifyOTP.
func (c *Client) Signup(ctx context.Context, email, password, fullname, fullnameHindi string) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/signup", map[string]string{
		"email":          email,
		"password":       password,
		"fullname":       fullname,
		"fullname_hindi": fullnameHindi,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// VerifyOTP confirms the emailed code and installs the returned session token.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/verify-otp", map[string]string{
		"email": email,
		"token": code,
		"type":  "email",
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

// Login authenticates and installs the session token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

// Logout revokes the current token server-side and clears it locally.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.SetToken("")
	return err
}

// ForgotPassword requests a recovery code for the email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/forgot-password", map[string]string{
		"email": email,
	}, nil)
}

// ResetPassword submits a new password. The checklist is evaluated locally
// first so the UI can surface which predicate failed before any request.
func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if checklist := CheckPassword(newPassword); !checklist.AllMet() {
		return &APIError{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR",
			Message: "password does not meet all requirements"}
	}
	return c.do(ctx, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email":        email,
		"token":        code,
		"new_password": newPassword,
	}, nil)
}

// Profile fetches the authenticated user.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ProfileUpdate carries the patchable profile fields; nil means untouched.
type ProfileUpdate struct {
	Username      *string `json:"username,omitempty"`
	Fullname      *string `json:"fullname,omitempty"`
	FullnameHindi *string `json:"fullname_hindi,omitempty"`
	ProfilePic    *string `json:"profile_pic,omitempty"`
}

// UpdateProfile patches the authenticated user's profile.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, "/api/users/me", update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListPosts fetches a feed page, newest first.
func (c *Client) ListPosts(ctx context.Context, limit, offset int) ([]Post, error) {
	var resp struct {
		Posts []Post `json:"posts"`
	}
	path := fmt.Sprintf("/api/posts?limit=%d&offset=%d", limit, offset)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

// UserPosts fetches one user's authored posts, newest first.
func (c *Client) UserPosts(ctx context.Context, userID uint, limit, offset int) ([]Post, error) {
	var resp struct {
		Posts []Post `json:"posts"`
	}
	path := fmt.Sprintf("/api/users/%d/posts?limit=%d&offset=%d", userID, limit, offset)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

// CreatePost publishes a post; content and imageURL may not both be empty.
func (c *Client) CreatePost(ctx context.Context, content, contentHindi, imageURL string) (*Post, error) {
	var post Post
	err := c.do(ctx, http.MethodPost, "/api/posts", map[string]string{
		"content":       content,
		"content_hindi": contentHindi,
		"image_url":     imageURL,
	}, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes the caller's own post.
func (c *Client) DeletePost(ctx context.Context, postID uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d", postID), nil, nil)
}

// Comments fetches a post's comments, oldest first.
func (c *Client) Comments(ctx context.Context, postID uint) ([]Comment, error) {
	var resp struct {
		Comments []Comment `json:"comments"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/posts/%d/comments", postID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Comments, nil
}

// CreateComment posts a comment under the post.
func (c *Client) CreateComment(ctx context.Context, postID uint, content string) (*Comment, error) {
	var comment Comment
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", postID),
		map[string]string{"content": content}, &comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ToggleSave flips the saved state and returns the post with its new flag.
func (c *Client) ToggleSave(ctx context.Context, postID uint) (*Post, error) {
	var post Post
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/posts/%d/save", postID), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Unsave removes a bookmark without toggling.
func (c *Client) Unsave(ctx context.Context, postID uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d/save", postID), nil, nil)
}

// SavedPosts fetches the caller's bookmarks, newest save first.
func (c *Client) SavedPosts(ctx context.Context, limit, offset int) ([]Post, error) {
	var resp struct {
		Posts []Post `json:"posts"`
	}
	path := fmt.Sprintf("/api/saved?limit=%d&offset=%d", limit, offset)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

// Upload stores raw image bytes in the bucket and returns the stored object.
func (c *Client) Upload(ctx context.Context, bucket, contentType string, content []byte) (*UploadObject, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/uploads/"+bucket, bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var errBody errorBody
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return nil, &APIError{Status: resp.StatusCode, Code: errBody.Code, Message: errBody.Error}
	}

	var obj UploadObject
	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

// Enhance rewrites a draft with the server's AI endpoint.
func (c *Client) Enhance(ctx context.Context, content string) (string, error) {
	var resp struct {
		EnhancedText string `json:"enhancedText"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/ai/enhance",
		map[string]string{"content": content}, &resp); err != nil {
		return "", err
	}
	return resp.EnhancedText, nil
}

// WSTicket trades the session token for a single-use websocket ticket.
func (c *Client) WSTicket(ctx context.Context) (string, error) {
	var resp struct {
		Ticket string `json:"ticket"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/ws/ticket", nil, &resp); err != nil {
		return "", err
	}
	return resp.Ticket, nil
}
