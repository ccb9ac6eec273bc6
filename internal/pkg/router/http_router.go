package router

import (
	"github.com/criadoresdevideo/videoclub/app/controllers"
	"github.com/criadoresdevideo/videoclub/internal/pkg/database"
	"github.com/criadoresdevideo/videoclub/internal/pkg/middleware"
	"github.com/criadoresdevideo/videoclub/internal/pkg/oauth"
	"github.com/criadoresdevideo/videoclub/internal/pkg/session"

	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Wire repositories and services into the controllers
	controllers.InitializeControllers(database.GetDB())

	h.registerPublicRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func loggedInMiddleware(c *fiber.Ctx) error {
	// UserContextMiddleware already set all user context
	return c.Next()
}
