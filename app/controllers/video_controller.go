package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/criadoresdevideo/videoclub/app/models"
	"github.com/criadoresdevideo/videoclub/app/repository"
	"github.com/criadoresdevideo/videoclub/internal/pkg/env"
	"github.com/criadoresdevideo/videoclub/internal/pkg/statistics"
	"github.com/criadoresdevideo/videoclub/internal/pkg/usercontext"
)

const videoPageSize = 24

// HandleHome renders the public video grid with community statistics.
func HandleHome(c *fiber.Ctx) error {
	videoRepo := repository.GetGlobalFactory().GetVideoRepository()
	videos, err := videoRepo.List(0, videoPageSize)
	if err != nil {
		fm := fiber.Map{"type": "error", "message": "Não foi possível carregar os vídeos"}
		return flash.WithError(c, fm).Redirect("/login")
	}

	viewer := viewerFromCtx(c)
	posts := make([]fiber.Map, 0, len(videos))
	for i := range videos {
		posts = append(posts, fiber.Map{
			"PublicID":   videos[i].PublicID,
			"YoutubeURL": videos[i].YoutubeURL,
			"Prompt":     videos[i].Prompt,
			"UserName":   nameResolver.Resolve(viewer, videos[i].UserID),
			"CreatedAt":  videos[i].CreatedAt,
		})
	}

	stats := statistics.GetStatistics()

	userCtx := usercontext.GetUserContext(c)
	return c.Render("video/index", fiber.Map{
		"Title":        "Criadores de Vídeo",
		"Videos":       posts,
		"TotalUsers":   stats.TotalUsers,
		"TotalVideos":  stats.TotalVideos,
		"IsLoggedIn":   userCtx.IsLoggedIn,
		"IsSubscriber": userCtx.IsSubscriber,
		"Flash":        flash.Get(c),
		"csrf":         csrfToken(c),
	})
}

// HandleDashboard renders the subscriber dashboard with the posting form and
// the user's own videos. Route is guarded by RequireSubscriber.
func HandleDashboard(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	videoRepo := repository.GetGlobalFactory().GetVideoRepository()
	videos, err := videoRepo.GetByUserID(userCtx.UserID, 0, videoPageSize)
	if err != nil {
		fm := fiber.Map{"type": "error", "message": "Não foi possível carregar seus vídeos"}
		return flash.WithError(c, fm).Redirect("/")
	}

	return c.Render("video/dashboard", fiber.Map{
		"Title":    "Dashboard",
		"Videos":   videos,
		"Username": userCtx.Username,
		"Flash":    flash.Get(c),
		"csrf":     csrfToken(c),
	})
}

// HandleVideoCreate accepts the dashboard posting form. Subscribers only.
func HandleVideoCreate(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	video := &models.Video{
		UserID:     userCtx.UserID,
		YoutubeURL: c.FormValue("youtube_url"),
		Prompt:     c.FormValue("prompt"),
	}
	if err := video.Validate(); err != nil {
		fm := fiber.Map{"type": "error", "message": fmt.Sprintf("Dados inválidos: %s", err)}
		return flash.WithError(c, fm).Redirect("/dashboard")
	}

	videoRepo := repository.GetGlobalFactory().GetVideoRepository()
	if err := videoRepo.Create(video); err != nil {
		fm := fiber.Map{"type": "error", "message": "Não foi possível publicar o vídeo"}
		return flash.WithError(c, fm).Redirect("/dashboard")
	}

	go statistics.UpdateStatisticsCache()

	fm := fiber.Map{"type": "success", "message": "Vídeo publicado!"}
	return flash.WithSuccess(c, fm).Redirect("/dashboard")
}

// HandleSubscriptionInfo renders the page shown to logged-in non-subscribers.
func HandleSubscriptionInfo(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	return c.Render("video/subscription", fiber.Map{
		"Title":       "Assinatura",
		"IsLoggedIn":  userCtx.IsLoggedIn,
		"CheckoutURL": env.GetEnv("CHECKOUT_URL", "#"),
		"Flash":       flash.Get(c),
		"csrf":        csrfToken(c),
	})
}
