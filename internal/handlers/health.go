package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/GeorgeAadm/LogStash/internal/database"
	"github.com/GeorgeAadm/LogStash/internal/rabbitmq"
)

// HealthHandler reports the health of the backing stores
type HealthHandler struct {
	db    *gorm.DB
	mongo *mongo.Client
	rmq   *rabbitmq.Connection // nil when the ingest consumer is disabled
}

// NewHealthHandler creates a new health handler with dependencies
func NewHealthHandler(db *gorm.DB, mongoClient *mongo.Client, rmq *rabbitmq.Connection) *HealthHandler {
	return &HealthHandler{
		db:    db,
		mongo: mongoClient,
		rmq:   rmq,
	}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// HealthCheck handles the health check endpoint
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	services := make(map[string]string)
	status := "healthy"

	if err := database.HealthCheck(ctx, h.db); err != nil {
		services["postgres"] = "unhealthy: " + err.Error()
		status = "unhealthy"
	} else {
		services["postgres"] = "healthy"
	}

	if err := database.MongoHealthCheck(ctx, h.mongo); err != nil {
		services["mongodb"] = "unhealthy: " + err.Error()
		status = "unhealthy"
	} else {
		services["mongodb"] = "healthy"
	}

	if h.rmq != nil {
		if h.rmq.IsHealthy() {
			services["rabbitmq"] = "healthy"
		} else {
			services["rabbitmq"] = "unhealthy: connection closed"
			status = "unhealthy"
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  services,
	}

	if status == "unhealthy" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(response)
	}

	return c.JSON(response)
}
