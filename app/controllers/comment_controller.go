package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/criadoresdevideo/videoclub/internal/pkg/metrics/counter"
	"github.com/criadoresdevideo/videoclub/internal/pkg/usercontext"
)

// HandleVideoDetail renders a single video with its comment thread.
// GET /v/:id
func HandleVideoDetail(c *fiber.Ctx) error {
	video, err := lookupVideo(c.Params("id"))
	if err != nil {
		fm := fiber.Map{"type": "error", "message": "Vídeo não encontrado"}
		return flash.WithError(c, fm).Redirect("/")
	}

	_ = counter.AddVideoView(video.ID)

	viewer := viewerFromCtx(c)
	thread, err := commentService.Thread(video.ID, viewer)
	if err != nil {
		fm := fiber.Map{"type": "error", "message": "Não foi possível carregar os comentários"}
		return flash.WithError(c, fm).Redirect("/")
	}

	userCtx := usercontext.GetUserContext(c)
	return c.Render("video/show", fiber.Map{
		"Title":        "Vídeo",
		"PublicID":     video.PublicID,
		"YoutubeURL":   video.YoutubeURL,
		"Prompt":       video.Prompt,
		"UserName":     nameResolver.Resolve(viewer, video.UserID),
		"CreatedAt":    video.CreatedAt,
		"Comments":     thread,
		"IsLoggedIn":   userCtx.IsLoggedIn,
		"IsSubscriber": userCtx.IsSubscriber,
		"Flash":        flash.Get(c),
		"csrf":         csrfToken(c),
	})
}

// HandleCommentCreate accepts the comment form on the video page. Requires
// login, the router attaches RequireAuth.
// POST /v/:id/comments with fields text and optional parent_id
func HandleCommentCreate(c *fiber.Ctx) error {
	video, err := lookupVideo(c.Params("id"))
	if err != nil {
		fm := fiber.Map{"type": "error", "message": "Vídeo não encontrado"}
		return flash.WithError(c, fm).Redirect("/")
	}
	target := "/v/" + video.PublicID

	var parentID *uint
	if raw := c.FormValue("parent_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			fm := fiber.Map{"type": "error", "message": "Comentário pai inválido"}
			return flash.WithError(c, fm).Redirect(target)
		}
		v := uint(id)
		parentID = &v
	}

	userCtx := usercontext.GetUserContext(c)
	if _, err := commentService.Post(video.ID, userCtx.UserID, c.FormValue("text"), parentID); err != nil {
		fm := fiber.Map{"type": "error", "message": "Não foi possível publicar o comentário"}
		return flash.WithError(c, fm).Redirect(target)
	}

	return c.Redirect(target)
}
