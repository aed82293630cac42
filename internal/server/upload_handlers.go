// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/models"
	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// UploadImage handles POST /api/uploads/:bucket. The raw image goes in the
// body; the key is derived from the caller and upload time, never from client
// input.
func (s *Server) UploadImage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	bucket := c.Params("bucket")

	if !storage.ValidBucket(bucket) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unknown bucket"))
	}

	body := c.Body()
	if len(body) == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	contentType := c.Get("Content-Type")
	ext := storage.ExtensionForContentType(contentType)

	var key string
	if bucket == storage.BucketImages {
		key = storage.BuildPostImageKey(userID, ext)
	} else {
		key = storage.BuildProfilePicKey(userID, ext)
	}

	obj, err := s.storage.Put(c.Context(), storage.UploadInput{
		Bucket:      bucket,
		Key:         key,
		ContentType: contentType,
		Content:     body,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(obj)
}

// ServeMedia handles GET /media/:bucket/* by streaming the stored object.
func (s *Server) ServeMedia(c *fiber.Ctx) error {
	bucket := c.Params("bucket")
	key := c.Params("*")

	path, contentType, err := s.storage.Resolve(bucket, key)
	if err != nil {
		return respondServiceError(c, err)
	}

	c.Set("Content-Type", contentType)
	c.Set("Cache-Control", "public, max-age=86400")
	return c.SendFile(path)
}
