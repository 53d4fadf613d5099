package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"trident/onboarding-portal/internal/models"
	"trident/onboarding-portal/internal/services"
)

type CandidateHandler struct {
	service services.CandidateService
	log     *zap.Logger
}

func NewCandidateHandler(service services.CandidateService, log *zap.Logger) *CandidateHandler {
	return &CandidateHandler{
		service: service,
		log:     log.Named("candidate-handler"),
	}
}

// HandleList handles GET /candidates?page=&search=
func (h *CandidateHandler) HandleList(c *fiber.Ctx) error {
	page, err := parsePage(c.Query("page"))
	if err != nil {
		return respondError(c, err, fiber.StatusBadRequest)
	}

	result, err := h.service.ListCandidates(c.UserContext(), services.ListQuery{
		Page:   page,
		Search: c.Query("search"),
	})
	if err != nil {
		code := statusFor(err, fiber.StatusBadGateway)
		body := errorBody(err, code)
		body["candidates"] = []models.CandidateRecord{}
		return c.Status(code).JSON(body)
	}

	return c.JSON(models.CandidateListResponse{
		Candidates: result.Candidates,
		Pagination: result.Pagination,
	})
}

// HandleGet handles GET /candidates/:id?page=
func (h *CandidateHandler) HandleGet(c *fiber.Ctx) error {
	page, err := parsePage(c.Query("page"))
	if err != nil {
		return respondError(c, err, fiber.StatusBadRequest)
	}

	record, err := h.service.GetCandidate(c.UserContext(), c.Params("id"), page)
	if err != nil {
		return respondError(c, err, fiber.StatusBadGateway)
	}

	return c.JSON(record)
}

// HandleDashboard handles GET /dashboard
func (h *CandidateHandler) HandleDashboard(c *fiber.Ctx) error {
	summary, err := h.service.Dashboard(c.UserContext())
	if err != nil {
		h.log.Warn("Dashboard unavailable", zap.Error(err))
		return respondError(c, err, fiber.StatusBadGateway)
	}

	return c.JSON(summary)
}

// parsePage accepts an empty value (no page requested) or a positive integer.
func parsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, services.ErrInvalidPage
	}
	return page, nil
}
