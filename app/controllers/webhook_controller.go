package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/criadoresdevideo/videoclub/internal/pkg/payments"
)

// HandleWebhook ingests payment-gateway deliveries. Only POST is accepted;
// the gateway retries on non-2xx, so once the raw event is persisted the
// response is always a success envelope.
func HandleWebhook(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
			"success":   false,
			"error":     "método não permitido",
			"message":   "Este endpoint aceita apenas POST requests",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}

	rawBody := append([]byte(nil), c.BodyRaw()...)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	result, err := paymentService.Ingest(ctx, rawBody)
	if err != nil {
		var malformed *payments.MalformedBodyError
		if errors.As(err, &malformed) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success":  false,
				"error":    "formato de dados inválido",
				"received": malformed.Echo,
			})
		}
		var validation *payments.ValidationError
		if errors.As(err, &validation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   validation.Error(),
				"field":   validation.Field,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "erro interno do servidor",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":                 true,
		"message":                 result.Message,
		"classification":          result.Classification,
		"evento":                  result.Evento,
		"subscription_activation": result.Activation,
		"processed_at":            result.ProcessedAt.Format(time.RFC3339),
	})
}
