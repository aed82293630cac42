// Package storage implements the disk-backed object store for uploaded images.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/config"
	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/models"
	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/observability"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
	_ "image/gif"               // Register GIF decoder
)

const (
	// BucketImages holds post images under posts/{userID}-{timestamp}.{ext}.
	BucketImages = "images"
	// BucketProfilePics holds avatars under {userID}-{timestamp}.{ext}.
	BucketProfilePics = "profile_pics"

	DefaultMaxUploadSizeMB = 10
	MasterMaxSize          = 2048
	JPEGQuality            = 82
	WebPQuality            = 70
)

// Object describes a stored upload.
type Object struct {
	Bucket      string `json:"bucket"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	URL         string `json:"url"`
	WebPURL     string `json:"webp_url,omitempty"`
}

// UploadInput carries one upload into the store.
type UploadInput struct {
	Bucket      string
	Key         string
	ContentType string
	Content     []byte
}

// Store writes uploads to disk under baseDir/{bucket}/{key} and serves them
// back via /media/{bucket}/{key} URLs.
type Store struct {
	baseDir            string
	baseURL            string
	maxUploadSizeBytes int64
}

// NewStore returns a Store rooted at cfg.StorageDir.
func NewStore(cfg *config.Config) *Store {
	baseDir := cfg.StorageDir
	if baseDir == "" {
		baseDir = "/tmp/kisanvikas/storage"
	}
	return &Store{
		baseDir:            baseDir,
		baseURL:            strings.TrimRight(cfg.PublicBaseURL, "/"),
		maxUploadSizeBytes: DefaultMaxUploadSizeMB * 1024 * 1024,
	}
}

// ValidBucket reports whether the bucket name is one the app serves.
func ValidBucket(name string) bool {
	return name == BucketImages || name == BucketProfilePics
}

// BuildPostImageKey builds the object key for a post image upload.
func BuildPostImageKey(userID uint, ext string) string {
	return fmt.Sprintf("posts/%d-%d.%s", userID, time.Now().UnixMilli(), ext)
}

// BuildProfilePicKey builds the object key for an avatar upload. Keys carry
// the owner's id so concurrent uploads from different users cannot collide.
func BuildProfilePicKey(userID uint, ext string) string {
	return fmt.Sprintf("%d-%d.%s", userID, time.Now().UnixMilli(), ext)
}

// ExtensionForContentType maps an image MIME type to the stored file extension.
func ExtensionForContentType(contentType string) string {
	switch normalizeContentType(contentType) {
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	default:
		return "jpeg"
	}
}

// ContentTypeForKey maps a stored key back to its MIME type. Anything that is
// not explicitly png or gif is served as jpeg.
func ContentTypeForKey(key string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(key), ".")) {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

// Put validates, normalizes, and persists an upload. Still images are
// re-encoded and downscaled to at most MasterMaxSize on the long edge, with a
// WebP variant written alongside. GIFs pass through untouched so animation
// survives.
func (s *Store) Put(ctx context.Context, in UploadInput) (*Object, error) {
	if !ValidBucket(in.Bucket) {
		return nil, models.NewValidationError("Unknown bucket")
	}
	if err := validateKey(in.Key); err != nil {
		return nil, err
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}
	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") && !isMatchingContentType(provided, detectedType) {
		return nil, models.NewValidationError("Image content type mismatch")
	}

	absPath := filepath.Join(s.baseDir, in.Bucket, filepath.FromSlash(in.Key))

	obj := &Object{
		Bucket:      in.Bucket,
		Key:         in.Key,
		ContentType: detectedType,
		URL:         s.PublicURL(in.Bucket, in.Key),
	}

	if normalizeContentType(detectedType) == "image/gif" {
		if err := writeBytesToFile(absPath, in.Content); err != nil {
			return nil, models.NewInternalError(err)
		}
		obj.SizeBytes = int64(len(in.Content))
		observability.UploadBytes.WithLabelValues(in.Bucket).Observe(float64(obj.SizeBytes))
		return obj, nil
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	master := resizeToFit(decoded, MasterMaxSize, MasterMaxSize)

	var encoded []byte
	switch format {
	case "png":
		encoded, err = encodePNG(master)
	default:
		encoded, err = encodeJPEG(master, JPEGQuality)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if err := writeBytesToFile(absPath, encoded); err != nil {
		return nil, models.NewInternalError(err)
	}

	// WebP variant next to the master, same key with .webp appended
	webpBytes, err := encodeWebP(master, WebPQuality)
	if err == nil {
		if werr := writeBytesToFile(absPath+".webp", webpBytes); werr == nil {
			obj.WebPURL = obj.URL + ".webp"
		}
	}

	obj.SizeBytes = int64(len(encoded))
	observability.UploadBytes.WithLabelValues(in.Bucket).Observe(float64(obj.SizeBytes))
	return obj, nil
}

// Resolve returns the on-disk path and content type for a stored object.
func (s *Store) Resolve(bucket, key string) (string, string, error) {
	if !ValidBucket(bucket) {
		return "", "", models.NewValidationError("Unknown bucket")
	}
	if err := validateKey(key); err != nil {
		return "", "", err
	}

	absPath := filepath.Join(s.baseDir, bucket, filepath.FromSlash(key))
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return "", "", models.NewNotFoundError("Object", bucket+"/"+key)
		}
		return "", "", models.NewInternalError(err)
	}

	contentType := ContentTypeForKey(key)
	if strings.HasSuffix(key, ".webp") {
		contentType = "image/webp"
	}
	return absPath, contentType, nil
}

// PublicURL returns the URL under which the object is served.
func (s *Store) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/media/%s/%s", s.baseURL, bucket, key)
}

// validateKey rejects keys that could escape the bucket directory.
func validateKey(key string) error {
	if key == "" {
		return models.NewValidationError("Object key is required")
	}
	if strings.Contains(key, "..") || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return models.NewValidationError("Invalid object key")
	}
	return nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodePNG(img image.Image) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := png.Encode(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
