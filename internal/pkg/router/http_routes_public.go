package router

import (
	"github.com/criadoresdevideo/videoclub/app/controllers"
	"github.com/criadoresdevideo/videoclub/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Auth, clears the goth session too for OAuth logins
	app.Post("/logout", middleware.RequireAuth, controllers.HandleOAuthLogout)

	// Social OAuth
	app.Get("/auth/:provider", controllers.HandleOAuthBegin)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)

}
