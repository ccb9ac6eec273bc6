package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/criadoresdevideo/videoclub/internal/pkg/middleware"
)

// RegisterHandlers attaches the v1 routes to the given group. Read endpoints
// are public, writes require a session, posting videos requires an active
// subscription.
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/ping", s.GetPing)

	router.Get("/videos", s.ListVideos)
	router.Post("/videos", middleware.RequireAPISubscriber, s.CreateVideo)

	router.Get("/videos/:id/comments", s.GetThread)
	router.Post("/videos/:id/comments", middleware.RequireAPISessionAuth, s.CreateComment)

	router.Get("/user/profile", middleware.RequireAPISessionAuth, s.GetUserProfile)
}
