// Package ingest consumes create-event messages from RabbitMQ so upstream
// services can record events without a synchronous HTTP call. Messages run
// through the same validation and coordination path as the HTTP handler.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/GeorgeAadm/LogStash/internal/config"
	"github.com/GeorgeAadm/LogStash/internal/consumer"
	"github.com/GeorgeAadm/LogStash/internal/metrics"
	"github.com/GeorgeAadm/LogStash/internal/models"
	"github.com/GeorgeAadm/LogStash/internal/rabbitmq"
	"github.com/GeorgeAadm/LogStash/internal/service"
	"github.com/GeorgeAadm/LogStash/internal/validator"
)

// Ingester consumes create-event messages and feeds them to the coordinator
type Ingester struct {
	cfg         *config.IngestConfig
	conn        *rabbitmq.Connection
	events      *service.EventService
	logger      *zap.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	consumerTag string
	started     bool
}

// NewIngester creates a new ingester instance with dependencies
func NewIngester(cfg *config.IngestConfig, conn *rabbitmq.Connection, events *service.EventService, logger *zap.Logger) *Ingester {
	ctx, cancel := context.WithCancel(context.Background())
	return &Ingester{
		cfg:         cfg,
		conn:        conn,
		events:      events,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		consumerTag: fmt.Sprintf("eventlog-ingest-%d", time.Now().Unix()),
	}
}

// Start begins consuming from the configured queue.
// Assumes the queue already exists - will fail if it doesn't.
func (i *Ingester) Start() error {
	if i.cfg.Queue == "" {
		return fmt.Errorf("ingest queue is required")
	}

	if err := i.startConsuming(); err != nil {
		return err
	}

	i.started = true
	i.logger.Info("Ingester started and consuming messages",
		zap.String("queue", i.cfg.Queue),
		zap.String("consumer_tag", i.consumerTag),
	)
	return nil
}

func (i *Ingester) startConsuming() error {
	if err := i.conn.SetQoS(i.cfg.PrefetchCount); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	messages, err := i.conn.ConsumeMessages(i.cfg.Queue, i.consumerTag)
	if err != nil {
		return fmt.Errorf("failed to start consuming from queue %s (queue may not exist): %w", i.cfg.Queue, err)
	}

	go i.processMessages(messages)
	return nil
}

// Stop gracefully stops the ingester
func (i *Ingester) Stop() error {
	i.logger.Info("Stopping ingester",
		zap.String("consumer_tag", i.consumerTag),
	)
	i.cancel()

	if err := i.conn.CancelConsumer(i.consumerTag); err != nil {
		i.logger.Error("Failed to cancel consumer",
			zap.String("consumer_tag", i.consumerTag),
			zap.Error(err),
		)
	}

	i.logger.Info("Ingester stopped")
	return nil
}

func (i *Ingester) processMessages(messages <-chan amqp.Delivery) {
	for {
		select {
		case <-i.ctx.Done():
			i.logger.Info("Ingester context cancelled, stopping message processing")
			return
		case msg, ok := <-messages:
			if !ok {
				i.logger.Warn("Message channel closed, waiting for reconnection...",
					zap.String("queue", i.cfg.Queue),
				)
				// The connection reconnects on its own; restart consuming after a delay
				time.Sleep(2 * time.Second)
				if i.started {
					if err := i.startConsuming(); err != nil {
						i.logger.Error("Failed to restart consuming after channel close",
							zap.String("queue", i.cfg.Queue),
							zap.Error(err),
						)
					}
				}
				return
			}
			consumer.ProcessMessage(i.logger, i.cfg.Queue, msg, i)
		}
	}
}

// HandleMessage implements the consumer.MessageHandler interface.
// A message that fails validation is a poison message: it is rejected and
// counted, never retried.
func (i *Ingester) HandleMessage(body []byte) error {
	var req models.CreateEventRequest
	if err := json.Unmarshal(body, &req); err != nil {
		metrics.IngestMessages.WithLabelValues("malformed").Inc()
		return fmt.Errorf("failed to unmarshal create event message: %w", err)
	}

	if violations := validator.Validate(&req); len(violations) > 0 {
		metrics.IngestMessages.WithLabelValues("invalid").Inc()
		i.logger.Warn("Rejecting invalid create event message",
			zap.String("user_id", req.UserID),
			zap.String("event_type", req.EventType),
			zap.Any("violations", violations),
		)
		return fmt.Errorf("create event message failed validation: %d violations", len(violations))
	}

	response, err := i.events.CreateEvent(i.ctx, &req)
	if err != nil {
		metrics.IngestMessages.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to create event from message: %w", err)
	}

	metrics.IngestMessages.WithLabelValues("created").Inc()
	i.logger.Info("Created event from message",
		zap.String("event_id", response.EventID.String()),
		zap.String("user_id", response.UserID),
		zap.String("event_type", response.EventType),
	)
	return nil
}
