package client

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"
)

// defaultDebounce coalesces change-feed bursts into one refetch.
const defaultDebounce = 250 * time.Millisecond

// Invalidator coalesces invalidation signals: however many Notify calls
// arrive within the debounce window, the callback fires once.
type Invalidator struct {
	mu       sync.Mutex
	window   time.Duration
	timer    *time.Timer
	callback func()
	closed   bool
}

// NewInvalidator returns an Invalidator firing callback after the window.
// A zero window uses the default.
func NewInvalidator(window time.Duration, callback func()) *Invalidator {
	if window <= 0 {
		window = defaultDebounce
	}
	return &Invalidator{window: window, callback: callback}
}

// Notify schedules (or reschedules) the callback.
func (i *Invalidator) Notify() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return
	}
	if i.timer != nil {
		i.timer.Stop()
	}
	i.timer = time.AfterFunc(i.window, i.callback)
}

// Close stops any pending callback.
func (i *Invalidator) Close() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.closed = true
	if i.timer != nil {
		i.timer.Stop()
	}
}

// FeedStore holds the feed screen's view of the world: posts newest first,
// refreshed wholesale, patched optimistically on user mutations. Each local
// patch bumps a sequence number; a refresh that started before the patch
// cannot clobber it.
type FeedStore struct {
	api *Client

	mu       sync.Mutex
	posts    []Post
	comments map[uint][]Comment
	seq      uint64

	pageSize int
}

// NewFeedStore returns an empty FeedStore with the given page size.
func NewFeedStore(api *Client, pageSize int) *FeedStore {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &FeedStore{api: api, pageSize: pageSize, comments: make(map[uint][]Comment)}
}

// Posts returns a snapshot of the current feed.
func (s *FeedStore) Posts() []Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// Comments returns a snapshot of a post's loaded comment thread, oldest
// first. Empty until LoadComments has run for the post.
func (s *FeedStore) Comments(postID uint) []Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Comment, len(s.comments[postID]))
	copy(out, s.comments[postID])
	return out
}

// LoadComments fetches a post's comment thread into the view.
func (s *FeedStore) LoadComments(ctx context.Context, postID uint) error {
	s.mu.Lock()
	started := s.seq
	s.mu.Unlock()

	comments, err := s.api.Comments(ctx, postID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq != started {
		return nil
	}
	s.comments[postID] = comments
	return nil
}

// Refresh re-derives the whole view from the server: the feed page plus the
// comment threads already open. If an optimistic patch landed while the
// fetch was in flight, the stale snapshot is discarded; the next change-feed
// event will trigger another refresh anyway.
func (s *FeedStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	started := s.seq
	open := make([]uint, 0, len(s.comments))
	for postID := range s.comments {
		open = append(open, postID)
	}
	s.mu.Unlock()

	posts, err := s.api.ListPosts(ctx, s.pageSize, 0)
	if err != nil {
		return err
	}
	threads := make(map[uint][]Comment, len(open))
	for _, postID := range open {
		comments, err := s.api.Comments(ctx, postID)
		if err != nil {
			return err
		}
		threads[postID] = comments
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq != started {
		return nil
	}
	s.posts = posts
	for postID, comments := range threads {
		s.comments[postID] = comments
	}
	return nil
}

// CreatePost publishes and prepends the new post optimistically.
func (s *FeedStore) CreatePost(ctx context.Context, content, contentHindi, imageURL string) (*Post, error) {
	post, err := s.api.CreatePost(ctx, content, contentHindi, imageURL)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.posts = append([]Post{*post}, s.posts...)
	return post, nil
}

// DeletePost removes the post remotely and drops it from the local list.
func (s *FeedStore) DeletePost(ctx context.Context, postID uint) error {
	if err := s.api.DeletePost(ctx, postID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	kept := s.posts[:0]
	for _, p := range s.posts {
		if p.ID != postID {
			kept = append(kept, p)
		}
	}
	s.posts = kept
	return nil
}

// AddComment posts a comment and appends the returned row to the post's
// local thread. Whitespace-only input is rejected before any request is
// made, so a blank submit never touches the backend or the view.
func (s *FeedStore) AddComment(ctx context.Context, postID uint, content string) (*Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, &APIError{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR",
			Message: "Comment cannot be empty"}
	}

	comment, err := s.api.CreateComment(ctx, postID, content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.comments[postID] = append(s.comments[postID], *comment)
	for i := range s.posts {
		if s.posts[i].ID == postID {
			s.posts[i].CommentsCount++
			break
		}
	}
	return comment, nil
}

// ToggleSave flips the saved flag remotely and patches the post in place.
func (s *FeedStore) ToggleSave(ctx context.Context, postID uint) (*Post, error) {
	post, err := s.api.ToggleSave(ctx, postID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	for i := range s.posts {
		if s.posts[i].ID == postID {
			s.posts[i] = *post
			break
		}
	}
	return post, nil
}

// SavedStore holds the saved screen: the caller's bookmarks only.
type SavedStore struct {
	api *Client

	mu    sync.Mutex
	posts []Post
	seq   uint64

	pageSize int
}

// NewSavedStore returns an empty SavedStore.
func NewSavedStore(api *Client, pageSize int) *SavedStore {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &SavedStore{api: api, pageSize: pageSize}
}

// Posts returns a snapshot of the saved list.
func (s *SavedStore) Posts() []Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// Refresh re-derives the saved list from the server.
func (s *SavedStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	started := s.seq
	s.mu.Unlock()

	posts, err := s.api.SavedPosts(ctx, s.pageSize, 0)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq != started {
		return nil
	}
	s.posts = posts
	return nil
}

// Unsave removes the bookmark remotely and drops the post locally. The saved
// screen's only affordance is removal.
func (s *SavedStore) Unsave(ctx context.Context, postID uint) error {
	if err := s.api.Unsave(ctx, postID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	kept := s.posts[:0]
	for _, p := range s.posts {
		if p.ID != postID {
			kept = append(kept, p)
		}
	}
	s.posts = kept
	return nil
}

// ProfileStore holds the profile screen: the user plus their own posts.
type ProfileStore struct {
	api *Client

	mu    sync.Mutex
	user  *User
	posts []Post
	seq   uint64

	pageSize int
}

// NewProfileStore returns an empty ProfileStore.
func NewProfileStore(api *Client, pageSize int) *ProfileStore {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &ProfileStore{api: api, pageSize: pageSize}
}

// User returns the cached profile, nil before the first refresh.
func (s *ProfileStore) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Posts returns a snapshot of the user's own posts.
func (s *ProfileStore) Posts() []Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// Refresh fetches the profile and the user's authored posts.
func (s *ProfileStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	started := s.seq
	s.mu.Unlock()

	user, err := s.api.Profile(ctx)
	if err != nil {
		return err
	}
	own, err := s.api.UserPosts(ctx, user.ID, s.pageSize, 0)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq != started {
		return nil
	}
	s.user = user
	s.posts = own
	return nil
}

// Update patches the profile remotely and locally.
func (s *ProfileStore) Update(ctx context.Context, update ProfileUpdate) (*User, error) {
	user, err := s.api.UpdateProfile(ctx, update)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.user = user
	return user, nil
}
