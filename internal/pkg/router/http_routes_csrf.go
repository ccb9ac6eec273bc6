package router

import (
	"strings"
	"time"

	"github.com/criadoresdevideo/videoclub/app/controllers"
	"github.com/criadoresdevideo/videoclub/internal/pkg/env"
	"github.com/criadoresdevideo/videoclub/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get("/", loggedInMiddleware, controllers.HandleHome)

	group.Get("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Post("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Get("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Post("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Get("/forgot-password", loggedInMiddleware, controllers.HandleForgotPassword)
	group.Post("/forgot-password", loggedInMiddleware, controllers.HandleForgotPassword)
	group.Get("/reset-password", loggedInMiddleware, controllers.HandleResetPassword)
	group.Post("/reset-password", loggedInMiddleware, controllers.HandleResetPassword)

	// Subscriber area
	group.Get("/dashboard", middleware.RequireSubscriber, controllers.HandleDashboard)
	group.Post("/videos", middleware.RequireSubscriber, controllers.HandleVideoCreate)
	group.Get("/assinatura", middleware.RequireAuth, controllers.HandleSubscriptionInfo)

	// Video pages and their comment forms
	group.Get("/v/:id", loggedInMiddleware, controllers.HandleVideoDetail)
	group.Post("/v/:id/comments", middleware.RequireAuth, controllers.HandleCommentCreate)
}
