package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(app *fiber.App, candidates *CandidateHandler, checks *CheckHandler) {
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Get("/candidates", candidates.HandleList)
	api.Get("/candidates/:id", candidates.HandleGet)
	api.Get("/dashboard", candidates.HandleDashboard)

	api.Post("/checks", checks.HandleCreate)
	api.Get("/checks/:id", checks.HandleGet)
	api.Post("/checks/:id/retry", checks.HandleRetry)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Onboarding Portal API",
			"version": "1.0.0",
			"endpoints": []string{
				"GET /api/v1/candidates",
				"GET /api/v1/candidates/:id",
				"GET /api/v1/dashboard",
				"POST /api/v1/checks",
				"GET /api/v1/checks/:id",
				"POST /api/v1/checks/:id/retry",
			},
		})
	})
}

// ErrorHandler renders errors that escaped a handler as JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
