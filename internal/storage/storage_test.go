package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(&config.Config{
		StorageDir:    t.TempDir(),
		PublicBaseURL: "http://localhost:8473",
	})
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func gifBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, 8, 8), []color.Color{color.Black, color.White})
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestStore_PutAndResolve(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	obj, err := store.Put(ctx, UploadInput{
		Bucket:      BucketImages,
		Key:         "posts/1-1700000000000.png",
		ContentType: "image/png",
		Content:     pngBytes(t, 64, 64),
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8473/media/images/posts/1-1700000000000.png", obj.URL)
	assert.NotEmpty(t, obj.WebPURL)
	assert.Greater(t, obj.SizeBytes, int64(0))

	path, contentType, err := store.Resolve(BucketImages, "posts/1-1700000000000.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)

	// WebP variant landed next to the master
	_, statErr = os.Stat(path + ".webp")
	assert.NoError(t, statErr)
}

func TestStore_Put_GIFPassthrough(t *testing.T) {
	store := newTestStore(t)
	original := gifBytes(t)

	obj, err := store.Put(context.Background(), UploadInput{
		Bucket:  BucketProfilePics,
		Key:     "1700000000000.gif",
		Content: original,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(len(original)), obj.SizeBytes)
	assert.Empty(t, obj.WebPURL)

	path, contentType, err := store.Resolve(BucketProfilePics, "1700000000000.gif")
	require.NoError(t, err)
	assert.Equal(t, "image/gif", contentType)

	stored, err := os.ReadFile(filepath.Clean(path))
	require.NoError(t, err)
	assert.Equal(t, original, stored)
}

func TestStore_Put_DownscalesLargeImages(t *testing.T) {
	store := newTestStore(t)

	obj, err := store.Put(context.Background(), UploadInput{
		Bucket:  BucketImages,
		Key:     "posts/1-1.png",
		Content: pngBytes(t, 4096, 1024),
	})
	require.NoError(t, err)

	path, _, err := store.Resolve(BucketImages, "posts/1-1.png")
	require.NoError(t, err)
	f, err := os.Open(filepath.Clean(path))
	require.NoError(t, err)
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, MasterMaxSize)
	assert.LessOrEqual(t, cfg.Height, MasterMaxSize)
	assert.Greater(t, obj.SizeBytes, int64(0))
}

func TestStore_Put_Rejections(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("unknown bucket", func(t *testing.T) {
		_, err := store.Put(ctx, UploadInput{Bucket: "secrets", Key: "x.png", Content: pngBytes(t, 4, 4)})
		assert.Error(t, err)
	})

	t.Run("path traversal key", func(t *testing.T) {
		_, err := store.Put(ctx, UploadInput{Bucket: BucketImages, Key: "../../etc/passwd", Content: pngBytes(t, 4, 4)})
		assert.Error(t, err)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := store.Put(ctx, UploadInput{Bucket: BucketImages, Key: "posts/x.png"})
		assert.Error(t, err)
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := store.Put(ctx, UploadInput{Bucket: BucketImages, Key: "posts/x.png", Content: []byte("plain text, not pixels")})
		assert.Error(t, err)
	})

	t.Run("declared type contradicts sniffed type", func(t *testing.T) {
		_, err := store.Put(ctx, UploadInput{
			Bucket:      BucketImages,
			Key:         "posts/x.png",
			ContentType: "image/gif",
			Content:     pngBytes(t, 4, 4),
		})
		assert.Error(t, err)
	})
}

func TestStore_Resolve_MissingObject(t *testing.T) {
	store := newTestStore(t)
	_, _, err := store.Resolve(BucketImages, "posts/does-not-exist.jpeg")
	assert.Error(t, err)
}

func TestExtensionMapping(t *testing.T) {
	assert.Equal(t, "png", ExtensionForContentType("image/png"))
	assert.Equal(t, "gif", ExtensionForContentType("image/gif"))
	assert.Equal(t, "jpeg", ExtensionForContentType("image/jpeg"))
	// Unknown and empty types default to jpeg
	assert.Equal(t, "jpeg", ExtensionForContentType(""))
	assert.Equal(t, "jpeg", ExtensionForContentType("application/octet-stream"))

	assert.Equal(t, "image/png", ContentTypeForKey("posts/1-2.png"))
	assert.Equal(t, "image/gif", ContentTypeForKey("a.gif"))
	assert.Equal(t, "image/jpeg", ContentTypeForKey("posts/1-2.jpeg"))
	assert.Equal(t, "image/jpeg", ContentTypeForKey("noext"))
}
