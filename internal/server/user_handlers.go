// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/models"
	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me. Absent fields are left untouched.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Username      *string `json:"username"`
		Fullname      *string `json:"fullname"`
		FullnameHindi *string `json:"fullname_hindi"`
		ProfilePic    *string `json:"profile_pic"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:        userID,
		Username:      req.Username,
		Fullname:      req.Fullname,
		FullnameHindi: req.FullnameHindi,
		ProfilePic:    req.ProfilePic,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishChange(TableUsers, EventUpdate, user.ID, user.ID, 0)

	return c.JSON(user)
}
