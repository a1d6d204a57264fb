package handlers

import (
	"time"

	"github.com/daybook-app/daybook-backend/internal/dto"
	"github.com/daybook-app/daybook-backend/internal/middleware"
	"github.com/daybook-app/daybook-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type TimelineHandler struct {
	authzService    *services.AuthorizationService
	timelineService *services.TimelineService
}

func NewTimelineHandler(authzService *services.AuthorizationService, timelineService *services.TimelineService) *TimelineHandler {
	return &TimelineHandler{authzService: authzService, timelineService: timelineService}
}

// Page returns reports from the viewer's authorized authors, newest created
// first. The authorized set is resolved per request from the loaded viewer;
// if that resolution fails the request fails, it never falls back to a wider
// set.
func (h *TimelineHandler) Page(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.TimelinePageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	before := time.Time{}
	if req.Before != nil {
		before = *req.Before
	}

	authorized := h.authzService.AllAuthorized(user, req.ShortList)
	reports, err := h.timelineService.ByPage(authorized, before, req.PageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch timeline",
		})
	}
	return c.JSON(reports)
}

// Range returns reports whose report date falls within [from, to].
func (h *TimelineHandler) Range(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.TimelineRangeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.From.IsZero() || req.To.IsZero() || req.To.Before(req.From) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid time range",
		})
	}

	authorized := h.authzService.AllAuthorized(user, req.ShortList)
	reports, err := h.timelineService.ByDateRange(authorized, req.From, req.To)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch timeline",
		})
	}
	return c.JSON(reports)
}
