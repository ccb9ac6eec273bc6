package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to existing controllers to keep behavior consistent
	"github.com/criadoresdevideo/videoclub/app/controllers"
)

// APIServer groups the versioned JSON handlers
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ping": "pong"})
}

// ListVideos returns the public video feed.
func (s *APIServer) ListVideos(c *fiber.Ctx) error {
	return controllers.HandleAPIListVideos(c)
}

// CreateVideo publishes a video post. Subscriber middleware is attached in
// the router.
func (s *APIServer) CreateVideo(c *fiber.Ctx) error {
	return controllers.HandleAPICreateVideo(c)
}

// GetThread returns the comment tree of a video.
func (s *APIServer) GetThread(c *fiber.Ctx) error {
	return controllers.HandleAPIGetThread(c)
}

// CreateComment posts a comment or reply on a video.
func (s *APIServer) CreateComment(c *fiber.Ctx) error {
	return controllers.HandleAPICreateComment(c)
}

// GetUserProfile returns account information for the authenticated user.
func (s *APIServer) GetUserProfile(c *fiber.Ctx) error {
	return controllers.HandleAPIGetUserProfile(c)
}
