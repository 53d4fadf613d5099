package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"trident/onboarding-portal/internal/repositories"
	"trident/onboarding-portal/internal/services"
)

// statusFor maps service errors to HTTP codes; unknown errors get fallback.
func statusFor(err error, fallback int) int {
	var upstream *services.UpstreamError
	var invalid *services.ValidationError

	switch {
	case errors.Is(err, services.ErrInvalidPage), errors.As(err, &invalid):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrCandidateNotFound), errors.Is(err, repositories.ErrCheckNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repositories.ErrCheckNotRetryable):
		return fiber.StatusConflict
	case errors.As(err, &upstream):
		return fiber.StatusBadGateway
	default:
		return fallback
	}
}

func errorBody(err error, code int) fiber.Map {
	body := fiber.Map{
		"error": err.Error(),
		"code":  code,
	}

	var invalid *services.ValidationError
	if errors.As(err, &invalid) {
		body["fields"] = invalid.Fields
	}
	return body
}

func respondError(c *fiber.Ctx, err error, fallback int) error {
	code := statusFor(err, fallback)
	return c.Status(code).JSON(errorBody(err, code))
}
