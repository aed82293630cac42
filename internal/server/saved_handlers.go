// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetSavedPosts handles GET /api/saved, newest save first, scoped to the caller.
func (s *Server) GetSavedPosts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	p := parsePagination(c, 20)

	posts, err := s.postService.ListSavedPosts(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// ToggleSavePost handles PUT /api/posts/:id/save. Saving a saved post unsaves
// it; the response carries the post with its new is_saved flag.
func (s *Server) ToggleSavePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.ToggleSave(c.Context(), userID, postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	event := EventDelete
	if post.IsSaved {
		event = EventInsert
	}
	s.publishChange(TableSavedPosts, event, postID, userID, postID)

	return c.JSON(post)
}

// UnsavePost handles DELETE /api/posts/:id/save for the saved screen, where
// the only affordance is removal.
func (s *Server) UnsavePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.UnsavePost(c.Context(), userID, postID); err != nil {
		return respondServiceError(c, err)
	}

	s.publishChange(TableSavedPosts, EventDelete, postID, userID, postID)

	return c.JSON(fiber.Map{"message": "Post unsaved"})
}
