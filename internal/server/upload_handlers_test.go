package server

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadImage(t *testing.T) {
	s, app := setupTestServer(t)
	user := createTestUser(t, s, "uploader")
	token := authToken(t, s, user)

	t.Run("post image upload and serve", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/uploads/images", bytes.NewReader(testPNG(t)))
		req.Header.Set("Content-Type", "image/png")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var obj storage.Object
		decodeBody(t, resp, &obj)
		assert.Equal(t, storage.BucketImages, obj.Bucket)
		assert.True(t, strings.HasPrefix(obj.Key, "posts/"), "key %q must be namespaced", obj.Key)
		assert.Contains(t, obj.URL, "/media/images/posts/")

		mediaPath := strings.TrimPrefix(obj.URL, s.config.PublicBaseURL)
		mediaResp, err := app.Test(httptest.NewRequest(http.MethodGet, mediaPath, nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, mediaResp.StatusCode)
		assert.Equal(t, "image/png", mediaResp.Header.Get("Content-Type"))
		_ = mediaResp.Body.Close()
	})

	t.Run("avatar key carries the owner id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/uploads/profile_pics", bytes.NewReader(testPNG(t)))
		req.Header.Set("Content-Type", "image/png")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var obj storage.Object
		decodeBody(t, resp, &obj)
		assert.Equal(t, storage.BucketProfilePics, obj.Bucket)
		assert.True(t, strings.HasPrefix(obj.Key, fmt.Sprintf("%d-", user.ID)),
			"key %q must be namespaced by the uploader", obj.Key)
	})

	t.Run("unknown bucket", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/uploads/secrets", bytes.NewReader(testPNG(t)))
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/uploads/images", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("requires auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/uploads/images", bytes.NewReader(testPNG(t)))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("missing object", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/media/images/posts/none.jpeg", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
