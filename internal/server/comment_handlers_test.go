package server

import (
	"net/http"
	"testing"

	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment(t *testing.T) {
	s, app := setupTestServer(t)
	user := createTestUser(t, s, "commenter")
	token := authToken(t, s, user)
	postID := createTestPost(t, app, token, "discuss")

	t.Run("whitespace only comment never creates a row", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, postPath(postID)+"/comments",
			map[string]string{"content": "   \n\t "}, token))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var count int64
		require.NoError(t, s.db.Model(&models.Comment{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("content is trimmed before storing", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, postPath(postID)+"/comments",
			map[string]string{"content": "  nice post  "}, token))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var comment models.Comment
		decodeBody(t, resp, &comment)
		assert.Equal(t, "nice post", comment.Content)
		assert.Equal(t, "commenter", comment.User.Username)
	})

	t.Run("comment on missing post", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts/9999/comments",
			map[string]string{"content": "hello?"}, token))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetComments_OldestFirst(t *testing.T) {
	s, app := setupTestServer(t)
	user := createTestUser(t, s, "threader")
	token := authToken(t, s, user)
	postID := createTestPost(t, app, token, "thread root")

	for _, content := range []string{"first reply", "second reply"} {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, postPath(postID)+"/comments",
			map[string]string{"content": content}, token))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, err := app.Test(jsonRequest(t, http.MethodGet, postPath(postID)+"/comments", nil, ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Comments []models.Comment `json:"comments"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Comments, 2)
	assert.Equal(t, "first reply", body.Comments[0].Content)
	assert.Equal(t, "second reply", body.Comments[1].Content)

	// The post detail reflects the count
	detailResp, err := app.Test(jsonRequest(t, http.MethodGet, postPath(postID), nil, ""))
	require.NoError(t, err)
	var post models.Post
	decodeBody(t, detailResp, &post)
	assert.Equal(t, 2, post.CommentsCount)
}
