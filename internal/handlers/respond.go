package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/excel-interviewer/internal/services"
)

// respondError maps the service error taxonomy onto HTTP statuses. Every kind
// stays distinguishable so the frontend can render an actionable message.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	case errors.Is(err, services.ErrArtifactNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Artifact not found"})
	case errors.Is(err, services.ErrPayloadTooLarge):
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": "File exceeds the maximum allowed size of 10 MB",
		})
	case errors.Is(err, services.ErrUnsupportedFormat):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported file type. Upload Excel workbooks, CSV/TSV extracts, or OpenDocument spreadsheets",
		})
	case errors.Is(err, services.ErrInvalidURL):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Provide a valid shareable link starting with http:// or https://",
		})
	case errors.Is(err, services.ErrEmptyTranscript):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Session has no turns to summarize yet",
		})
	case errors.Is(err, services.ErrConcurrencyTimeout):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Another operation on this session is still in progress, try again shortly",
		})
	case errors.Is(err, context.Canceled):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Request cancelled"})
	}

	if kind, ok := services.GenerationFailureOf(err); ok {
		status := fiber.StatusBadGateway
		if kind == services.GenerationTimeout {
			status = fiber.StatusGatewayTimeout
		}
		return c.Status(status).JSON(fiber.Map{
			"error": "Interviewer response failed, please retry",
			"kind":  string(kind),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
