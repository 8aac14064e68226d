package routes

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GeorgeAadm/LogStash/internal/handlers"
)

// SetupRoutes configures all application routes with dependencies
func SetupRoutes(app *fiber.App, eventsHandler *handlers.EventsHandler, healthHandler *handlers.HealthHandler) {
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Post("/events", eventsHandler.CreateEvent)
		api.Get("/events/:userId", eventsHandler.GetUserEvents)
	}
}
