package handlers

import (
	"net/url"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/GeorgeAadm/LogStash/internal/config"
	"github.com/GeorgeAadm/LogStash/internal/models"
	"github.com/GeorgeAadm/LogStash/internal/service"
	"github.com/GeorgeAadm/LogStash/internal/validator"
)

// EventsHandler handles event creation and retrieval
type EventsHandler struct {
	service *service.EventService
	query   config.QueryConfig
	logger  *zap.Logger
}

// NewEventsHandler creates a new events handler with dependencies
func NewEventsHandler(svc *service.EventService, queryCfg config.QueryConfig, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		service: svc,
		query:   queryCfg,
		logger:  logger,
	}
}

// CreateEvent handles POST /api/v1/events.
// Invalid requests get a 400 with the full list of field violations; the
// stores are not touched in that case.
func (h *EventsHandler) CreateEvent(c *fiber.Ctx) error {
	var req models.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if violations := validator.Validate(&req); len(violations) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":      "validation failed",
			"violations": violations,
		})
	}

	response, err := h.service.CreateEvent(c.UserContext(), &req)
	if err != nil {
		h.logger.Error("Failed to create event",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "An error occurred while creating the event",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

// GetUserEvents handles GET /api/v1/events/:userId
// Query parameters:
//   - eventType (optional): filter by event type
//   - fromDate, toDate (optional, RFC 3339): inclusive timestamp bounds
//   - limit (optional, default 50, max 1000): number of events to return
func (h *EventsHandler) GetUserEvents(c *fiber.Ctx) error {
	userID, err := url.PathUnescape(c.Params("userId"))
	if err != nil || !validator.ValidEmail(userID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid userId format. Must be a valid email address.",
		})
	}

	limit := c.QueryInt("limit", h.query.DefaultLimit)
	if limit < 1 || limit > h.query.MaxLimit {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be between 1 and " + strconv.Itoa(h.query.MaxLimit),
		})
	}

	query := &models.GetUserEventsQuery{
		UserID:    userID,
		EventType: c.Query("eventType"),
		Limit:     limit,
	}

	if query.FromDate, err = parseDateParam(c.Query("fromDate")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "fromDate must be an RFC 3339 timestamp",
		})
	}
	if query.ToDate, err = parseDateParam(c.Query("toDate")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "toDate must be an RFC 3339 timestamp",
		})
	}

	events, err := h.service.GetUserEvents(c.UserContext(), query)
	if err != nil {
		h.logger.Error("Failed to retrieve events",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "An error occurred while retrieving events",
		})
	}

	if len(events) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No events found for user " + userID,
		})
	}

	return c.JSON(events)
}

func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
