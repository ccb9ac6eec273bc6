package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/criadoresdevideo/videoclub/app/repository"
	"github.com/criadoresdevideo/videoclub/internal/pkg/comments"
	"github.com/criadoresdevideo/videoclub/internal/pkg/namecache"
	"github.com/criadoresdevideo/videoclub/internal/pkg/payments"
	"github.com/criadoresdevideo/videoclub/internal/pkg/s3backup"
	"github.com/criadoresdevideo/videoclub/internal/pkg/usercontext"
)

const (
	AUTH_KEY           string = "authenticated"
	USER_ID            string = "user_id"
	USER_NAME          string = "username"
	USER_EMAIL         string = "user_email"
	USER_IS_ADMIN      string = "isAdmin"
	USER_IS_SUBSCRIBER string = "isSubscriber"
	FROM_PROTECTED     string = "from_protected"
)

var (
	nameCache      *namecache.Cache
	nameResolver   *namecache.Resolver
	commentService *comments.Service
	paymentService *payments.Service
)

// InitializeControllers wires the repositories and services shared by all
// controllers. Called once by the router during startup.
func InitializeControllers(db *gorm.DB) {
	repository.InitializeFactory(db)
	repos := repository.GetGlobalRepositories()

	nameCache = namecache.New()
	nameResolver = namecache.NewResolver(nameCache, repos.User)
	commentService = comments.NewService(repos.Comment, nameResolver)
	paymentService = payments.NewServiceFromDB(db, nameCache)

	archiver, err := s3backup.NewArchiverFromEnv()
	if err != nil {
		log.Printf("webhook payload archive disabled: %v", err)
	} else if archiver != nil {
		paymentService = paymentService.WithArchiver(archiver)
	}
}

// viewerFromCtx builds the name-resolution viewer from the request session.
func viewerFromCtx(c *fiber.Ctx) namecache.Viewer {
	userCtx := usercontext.GetUserContext(c)
	return namecache.Viewer{
		ID:    userCtx.UserID,
		Name:  userCtx.Username,
		Email: userCtx.Email,
	}
}

// csrfToken returns the token generated by the csrf middleware, empty when
// the route is outside the protected group.
func csrfToken(c *fiber.Ctx) string {
	if v, ok := c.Locals("csrf").(string); ok {
		return v
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
