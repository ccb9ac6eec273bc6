package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/criadoresdevideo/videoclub/app/models"
	"github.com/criadoresdevideo/videoclub/app/repository"
	"github.com/criadoresdevideo/videoclub/internal/pkg/usercontext"
)

// HandleAPIGetThread returns the two-level comment tree of a video.
// GET /api/v1/videos/:id/comments
func HandleAPIGetThread(c *fiber.Ctx) error {
	video, err := lookupVideo(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "video not found",
		})
	}

	thread, err := commentService.Thread(video.ID, viewerFromCtx(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not load comments",
		})
	}

	return c.JSON(fiber.Map{"data": thread})
}

// HandleAPICreateComment posts a comment or a reply on a video.
// POST /api/v1/videos/:id/comments {"text": ..., "parent_id": optional}
func HandleAPICreateComment(c *fiber.Ctx) error {
	video, err := lookupVideo(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "video not found",
		})
	}

	var input struct {
		Text     string `json:"text"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid JSON body",
		})
	}

	userCtx := usercontext.GetUserContext(c)
	comment, err := commentService.Post(video.ID, userCtx.UserID, input.Text, input.ParentID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"id":         comment.ID,
			"video_id":   comment.VideoID,
			"parent_id":  comment.ParentID,
			"text":       comment.Text,
			"created_at": comment.CreatedAt,
		},
	})
}

// lookupVideo resolves the public UUID used in API and page URLs.
func lookupVideo(publicID string) (*models.Video, error) {
	videoRepo := repository.GetGlobalFactory().GetVideoRepository()
	return videoRepo.GetByPublicID(publicID)
}
