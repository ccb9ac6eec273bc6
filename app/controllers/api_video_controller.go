package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/criadoresdevideo/videoclub/app/models"
	"github.com/criadoresdevideo/videoclub/app/repository"
	"github.com/criadoresdevideo/videoclub/internal/pkg/statistics"
	"github.com/criadoresdevideo/videoclub/internal/pkg/usercontext"
	"github.com/criadoresdevideo/videoclub/internal/pkg/utils"
)

const apiMaxPageSize = 100

// HandleAPIListVideos returns the public video feed as JSON.
// GET /api/v1/videos?offset=0&limit=24
func HandleAPIListVideos(c *fiber.Ctx) error {
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(videoPageSize)))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > apiMaxPageSize {
		limit = videoPageSize
	}

	videoRepo := repository.GetGlobalFactory().GetVideoRepository()
	videos, err := videoRepo.List(offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not load videos",
		})
	}

	viewer := viewerFromCtx(c)
	data := make([]fiber.Map, 0, len(videos))
	for i := range videos {
		data = append(data, fiber.Map{
			"id":          videos[i].PublicID,
			"youtube_url": videos[i].YoutubeURL,
			"prompt":      videos[i].Prompt,
			"user_name":   nameResolver.Resolve(viewer, videos[i].UserID),
			"created_at":  videos[i].CreatedAt,
		})
	}

	return c.JSON(fiber.Map{"data": data})
}

// HandleAPICreateVideo publishes a new video post. Subscribers only, the
// router attaches RequireAPISubscriber.
// POST /api/v1/videos {"youtube_url": ..., "prompt": ...}
func HandleAPICreateVideo(c *fiber.Ctx) error {
	var input struct {
		YoutubeURL string `json:"youtube_url"`
		Prompt     string `json:"prompt"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid JSON body",
		})
	}

	userCtx := usercontext.GetUserContext(c)
	video := &models.Video{
		UserID:     userCtx.UserID,
		YoutubeURL: input.YoutubeURL,
		Prompt:     input.Prompt,
	}
	if err := video.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": err.Error(),
		})
	}

	videoRepo := repository.GetGlobalFactory().GetVideoRepository()
	if err := videoRepo.Create(video); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not create video",
		})
	}

	go statistics.UpdateStatisticsCache()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"id":          video.PublicID,
			"youtube_url": video.YoutubeURL,
			"prompt":      video.Prompt,
			"created_at":  video.CreatedAt,
		},
	})
}

// HandleAPIGetUserProfile returns the authenticated user's profile.
// GET /api/v1/user/profile
func HandleAPIGetUserProfile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByID(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "user not found",
		})
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"id":            user.ID,
			"name":          user.Name,
			"email":         user.Email,
			"avatar_url":    utils.GetGravatarURL(user.Email, 200),
			"is_subscriber": user.IsSubscriber,
			"created_at":    user.CreatedAt,
		},
	})
}
