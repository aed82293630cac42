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

func TestCommentService_CreateComment_Validation(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(noopCommentRepo(), noopPostRepo())
	ctx := context.Background()

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 1})
		assertValidationError(t, err)
	})

	t.Run("whitespace-only content never creates a row", func(t *testing.T) {
		t.Parallel()
		created := false
		commentRepo := noopCommentRepo()
		commentRepo.createFn = func(_ context.Context, _ *models.Comment) error { created = true; return nil }
		svc2 := NewCommentService(commentRepo, noopPostRepo())

		_, err := svc2.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 1, Content: "   \t\n "})
		assertValidationError(t, err)
		assert.False(t, created)
	})

	t.Run("content too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{
			UserID:  1,
			PostID:  1,
			Content: strings.Repeat("x", 10001),
		})
		assertValidationError(t, err)
	})

	t.Run("post not found propagates repo error", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("post not found")
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return nil, repoErr
		}
		svc2 := NewCommentService(noopCommentRepo(), postRepo)
		_, err := svc2.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 99, Content: "hi"})
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestCommentService_CreateComment_TrimsContent(t *testing.T) {
	t.Parallel()

	var created *models.Comment
	commentRepo := noopCommentRepo()
	commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = 42
		created = c
		return nil
	}
	commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, Content: created.Content, UserID: 1, PostID: 1}, nil
	}

	svc := NewCommentService(commentRepo, noopPostRepo())
	comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
		UserID:  1,
		PostID:  1,
		Content: "  good advice bhai  ",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(42), comment.ID)
	assert.Equal(t, "good advice bhai", comment.Content)
}
