package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo(), noopSavedRepo())
	ctx := context.Background()

	t.Run("empty post rejected", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1})
		assertValidationError(t, err)
	})

	t.Run("whitespace-only content rejected", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, Content: "   \n\t  "})
		assertValidationError(t, err)
	})

	t.Run("content too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, Content: strings.Repeat("x", 10001)})
		assertValidationError(t, err)
	})

	t.Run("image-only post allowed", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, ImageURL: "/media/images/posts/1-123.jpeg"})
		assert.NoError(t, err)
	})
}

func TestPostService_CreatePost_TrimsContent(t *testing.T) {
	t.Parallel()

	var created *models.Post
	postRepo := noopPostRepo()
	postRepo.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 7
		created = p
		return nil
	}

	svc := NewPostService(postRepo, noopSavedRepo())
	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:       1,
		Content:      "  mandi prices are up  ",
		ContentHindi: " मंडी भाव बढ़े ",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "mandi prices are up", *created.Content)
	assert.Equal(t, "मंडी भाव बढ़े", *created.ContentHindi)
	assert.Nil(t, created.ImageURL)
}

func TestPostService_ToggleSave(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("save when not saved", func(t *testing.T) {
		t.Parallel()
		var saved, unsaved bool
		savedRepo := noopSavedRepo()
		savedRepo.isSavedFn = func(_ context.Context, _, _ uint) (bool, error) { return false, nil }
		savedRepo.saveFn = func(_ context.Context, _, _ uint) error { saved = true; return nil }
		savedRepo.unsaveFn = func(_ context.Context, _, _ uint) error { unsaved = true; return nil }

		svc := NewPostService(noopPostRepo(), savedRepo)
		_, err := svc.ToggleSave(ctx, 1, 42)
		require.NoError(t, err)
		assert.True(t, saved)
		assert.False(t, unsaved)
	})

	t.Run("unsave when already saved", func(t *testing.T) {
		t.Parallel()
		var saved, unsaved bool
		savedRepo := noopSavedRepo()
		savedRepo.isSavedFn = func(_ context.Context, _, _ uint) (bool, error) { return true, nil }
		savedRepo.saveFn = func(_ context.Context, _, _ uint) error { saved = true; return nil }
		savedRepo.unsaveFn = func(_ context.Context, _, _ uint) error { unsaved = true; return nil }

		svc := NewPostService(noopPostRepo(), savedRepo)
		_, err := svc.ToggleSave(ctx, 1, 42)
		require.NoError(t, err)
		assert.False(t, saved)
		assert.True(t, unsaved)
	})

	t.Run("missing post propagates error", func(t *testing.T) {
		t.Parallel()
		repoErr := models.NewNotFoundError("Post", 99)
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) { return nil, repoErr }

		svc := NewPostService(postRepo, noopSavedRepo())
		_, err := svc.ToggleSave(ctx, 1, 99)
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestPostService_DeletePost_OwnershipEnforced(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 2}, nil
	}
	deleted := false
	postRepo.deleteFn = func(_ context.Context, _ uint) error { deleted = true; return nil }

	svc := NewPostService(postRepo, noopSavedRepo())

	err := svc.DeletePost(ctx, DeletePostInput{UserID: 1, PostID: 10})
	var appErr *models.AppError
	if assert.Error(t, err) && assert.True(t, errors.As(err, &appErr)) {
		assert.Equal(t, "UNAUTHORIZED", appErr.Code)
	}
	assert.False(t, deleted)

	err = svc.DeletePost(ctx, DeletePostInput{UserID: 2, PostID: 10})
	assert.NoError(t, err)
	assert.True(t, deleted)
}

func TestPostService_ListSavedPosts_ScopedToUser(t *testing.T) {
	t.Parallel()

	var requestedUser uint
	postRepo := noopPostRepo()
	postRepo.listSavedFn = func(_ context.Context, userID uint, _, _ int) ([]*models.Post, error) {
		requestedUser = userID
		return []*models.Post{{ID: 1, IsSaved: true}}, nil
	}

	svc := NewPostService(postRepo, noopSavedRepo())
	posts, err := svc.ListSavedPosts(context.Background(), 5, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(5), requestedUser)
	require.Len(t, posts, 1)
	assert.True(t, posts[0].IsSaved)
}
