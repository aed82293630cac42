// Package service contains the application's business logic.
package service

import (
	"context"
	"strings"

	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/cache"
	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/models"
	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/repository"
)

type PostService struct {
	postRepo  repository.PostRepository
	savedRepo repository.SavedPostRepository
}

type CreatePostInput struct {
	UserID       uint
	Content      string
	ContentHindi string
	ImageURL     string
}

type ListPostsInput struct {
	Limit         int
	Offset        int
	CurrentUserID uint
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	savedRepo repository.SavedPostRepository,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		savedRepo: savedRepo,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	const maxContentLen = 10000

	content := strings.TrimSpace(in.Content)
	contentHindi := strings.TrimSpace(in.ContentHindi)
	imageURL := strings.TrimSpace(in.ImageURL)

	// A post needs text or an image; an empty shell is rejected.
	if content == "" && imageURL == "" {
		return nil, models.NewValidationError("Post must have content or an image")
	}
	if len(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}

	post := &models.Post{UserID: in.UserID}
	if content != "" {
		post.Content = &content
	}
	if contentHindi != "" {
		post.ContentHindi = &contentHindi
	}
	if imageURL != "" {
		post.ImageURL = &imageURL
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// ListPosts returns the feed, newest first. The anonymous first page is
// served from cache; saved flags are always computed for the requesting user.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	if in.CurrentUserID == 0 && in.Offset == 0 && in.Limit <= 20 {
		var posts []*models.Post
		err := cache.Aside(ctx, cache.FeedKey, &posts, cache.FeedTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.List(ctx, in.Limit, in.Offset, 0)
			return fetchErr
		})
		if err != nil {
			return nil, err
		}
		return posts, nil
	}

	return s.postRepo.List(ctx, in.Limit, in.Offset, in.CurrentUserID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

// ListSavedPosts returns only the requesting user's bookmarks, newest first.
func (s *PostService) ListSavedPosts(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.ListSaved(ctx, userID, limit, offset)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}

	if post.UserID != in.UserID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

// ToggleSave flips the saved state of the post for the user and returns the
// post with its new saved flag. Saving an already-saved post unsaves it.
func (s *PostService) ToggleSave(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return nil, err
	}

	isSaved, err := s.savedRepo.IsSaved(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if isSaved {
		if err := s.savedRepo.Unsave(ctx, userID, postID); err != nil {
			return nil, err
		}
	} else {
		if err := s.savedRepo.Save(ctx, userID, postID); err != nil {
			return nil, err
		}
	}

	return s.postRepo.GetByID(ctx, postID, userID)
}

// UnsavePost removes the bookmark without toggling. Used by the saved screen
// where the only affordance is removal.
func (s *PostService) UnsavePost(ctx context.Context, userID, postID uint) error {
	return s.savedRepo.Unsave(ctx, userID, postID)
}
