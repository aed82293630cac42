// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"log"
	"strings"

	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// EnhanceText handles POST /api/ai/enhance. The response shape is fixed:
// 200 {"enhancedText": ...}, 400 {"error": "No content provided"},
// 500 {"error": "Internal server error"}.
func (s *Server) EnhanceText(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		observability.EnhanceRequests.WithLabelValues("rejected").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No content provided",
		})
	}

	if s.enhancer == nil {
		log.Printf("enhance requested but no Gemini client is configured")
		observability.EnhanceRequests.WithLabelValues("error").Inc()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	enhanced, err := s.enhancer.Enhance(c.Context(), req.Content)
	if err != nil {
		log.Printf("enhance failed: %v", err)
		observability.EnhanceRequests.WithLabelValues("error").Inc()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	observability.EnhanceRequests.WithLabelValues("success").Inc()
	return c.JSON(fiber.Map{"enhancedText": enhanced})
}
