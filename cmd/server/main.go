package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/GeorgeAadm/LogStash/internal/config"
	"github.com/GeorgeAadm/LogStash/internal/database"
	"github.com/GeorgeAadm/LogStash/internal/handlers"
	"github.com/GeorgeAadm/LogStash/internal/ingest"
	"github.com/GeorgeAadm/LogStash/internal/logger"
	"github.com/GeorgeAadm/LogStash/internal/rabbitmq"
	"github.com/GeorgeAadm/LogStash/internal/repository"
	"github.com/GeorgeAadm/LogStash/internal/routes"
	"github.com/GeorgeAadm/LogStash/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	// PostgreSQL: event metadata
	if err := database.RunMigrations(&cfg.Database, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	db, err := database.Connect(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, log); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	// MongoDB: event details
	mongoClient, err := database.ConnectMongo(context.Background(), &cfg.Mongo, log)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := database.CloseMongo(mongoClient, log); err != nil {
			log.Error("Error closing MongoDB connection", zap.Error(err))
		}
	}()

	metadataRepo := repository.NewMetadataRepository(db, log)
	detailsRepo := repository.NewDetailsRepository(mongoClient, &cfg.Mongo, log)
	eventService := service.NewEventService(metadataRepo, detailsRepo, log)

	// Optional AMQP ingest path
	var rmq *rabbitmq.Connection
	if cfg.Ingest.Enabled {
		rmq = rabbitmq.NewConnection(&cfg.RabbitMQ, log)
		if err := rmq.Connect(); err != nil {
			log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer rmq.Close()

		ingester := ingest.NewIngester(&cfg.Ingest, rmq, eventService, log)
		if err := ingester.Start(); err != nil {
			log.Fatal("Failed to start ingester", zap.Error(err))
		}
		defer func() {
			if err := ingester.Stop(); err != nil {
				log.Error("Error stopping ingester", zap.Error(err))
			}
		}()
	}

	app := fiber.New(fiber.Config{
		AppName:      "Event Logger",
		ServerHeader: "Fiber",
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	eventsHandler := handlers.NewEventsHandler(eventService, cfg.Query, log)
	healthHandler := handlers.NewHealthHandler(db, mongoClient, rmq)
	routes.SetupRoutes(app, eventsHandler, healthHandler)

	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		log.Info("Server starting",
			zap.String("address", addr),
		)
		if err := app.Listen(addr); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error("Error during server shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}
