package handlers

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/excel-interviewer/internal/services"
)

func statusFor(t *testing.T, err error) int {
	t.Helper()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return respondError(c, err)
	})

	resp, testErr := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, testErr)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"session not found", services.ErrSessionNotFound, fiber.StatusNotFound},
		{"artifact not found", services.ErrArtifactNotFound, fiber.StatusNotFound},
		{"payload too large", services.ErrPayloadTooLarge, fiber.StatusRequestEntityTooLarge},
		{"unsupported format", services.ErrUnsupportedFormat, fiber.StatusBadRequest},
		{"invalid url", services.ErrInvalidURL, fiber.StatusBadRequest},
		{"empty transcript", services.ErrEmptyTranscript, fiber.StatusBadRequest},
		{"concurrency timeout", services.ErrConcurrencyTimeout, fiber.StatusConflict},
		{"request cancelled", context.Canceled, fiber.StatusBadRequest},
		{"generation timeout", &services.GenerationError{Kind: services.GenerationTimeout, Err: context.DeadlineExceeded}, fiber.StatusGatewayTimeout},
		{"generation transport", &services.GenerationError{Kind: services.GenerationTransport, Err: errors.New("connection reset")}, fiber.StatusBadGateway},
		{"generation invalid reply", &services.GenerationError{Kind: services.GenerationInvalidReply, Err: errors.New("missing field")}, fiber.StatusBadGateway},
		{"unexpected", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, statusFor(t, tc.err))
		})
	}
}
