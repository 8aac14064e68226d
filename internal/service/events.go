// Package service holds the event coordinator: it orchestrates the create
// and query flows across the metadata and details stores and owns the
// merge-on-read logic.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GeorgeAadm/LogStash/internal/classifier"
	"github.com/GeorgeAadm/LogStash/internal/metrics"
	"github.com/GeorgeAadm/LogStash/internal/models"
)

// MetadataStore is the contract for the relational event metadata store.
type MetadataStore interface {
	Insert(ctx context.Context, metadata *models.EventMetadata) error
	QueryByUser(ctx context.Context, query *models.GetUserEventsQuery) ([]models.EventMetadata, error)
}

// DetailsStore is the contract for the schemaless event details store.
// BatchGet returns only the ids that have a document; missing ids are
// absent from the map, not an error.
type DetailsStore interface {
	Put(ctx context.Context, details *models.EventDetails) error
	BatchGet(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]models.EventDetails, error)
}

// EventService coordinates event creation and retrieval across the two
// stores. The metadata write is the authoritative "did the event happen"
// record; the details write is conditional and non-transactional.
type EventService struct {
	metadata MetadataStore
	details  DetailsStore
	logger   *zap.Logger

	// Overridable in tests
	now   func() time.Time
	newID func() uuid.UUID
}

// NewEventService creates a new event service with all dependencies
func NewEventService(metadata MetadataStore, details DetailsStore, logger *zap.Logger) *EventService {
	return &EventService{
		metadata: metadata,
		details:  details,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.New,
	}
}

// CreateEvent records one event. The id and timestamp are generated here,
// once, and shared by both records. Metadata is written first; if that
// fails the event does not exist and the details store is never touched.
// A details write failure after the metadata commit is surfaced to the
// caller even though the metadata row remains: there is no compensation
// and no retry, so the store can hold metadata-only events.
func (s *EventService) CreateEvent(ctx context.Context, req *models.CreateEventRequest) (*models.CreateEventResponse, error) {
	eventType, err := models.ParseEventType(req.EventType)
	if err != nil {
		return nil, fmt.Errorf("invalid create request: %w", err)
	}

	var source *string
	if req.Source != "" {
		parsed, err := models.ParseEventSource(req.Source)
		if err != nil {
			return nil, fmt.Errorf("invalid create request: %w", err)
		}
		normalized := string(parsed)
		source = &normalized
	}

	eventID := s.newID()
	timestamp := s.now()

	s.logger.Info("Creating event",
		zap.String("event_id", eventID.String()),
		zap.String("user_id", req.UserID),
		zap.String("event_type", string(eventType)),
	)

	metadata := &models.EventMetadata{
		EventID:   eventID,
		UserID:    req.UserID,
		EventType: string(eventType),
		Timestamp: timestamp,
		Source:    source,
	}

	if err := s.metadata.Insert(ctx, metadata); err != nil {
		metrics.CreateFailures.WithLabelValues("metadata").Inc()
		s.logger.Error("Failed to create event metadata",
			zap.String("event_id", eventID.String()),
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if req.HasDetails() {
		details := &models.EventDetails{
			EventID:   eventID.String(),
			Details:   string(req.EventDetails),
			CreatedAt: timestamp,
			UserID:    req.UserID,
			EventType: string(eventType),
			Category:  classifier.Categorize(string(eventType)),
		}

		if err := s.details.Put(ctx, details); err != nil {
			metrics.CreateFailures.WithLabelValues("details").Inc()
			s.logger.Error("Failed to create event details, metadata already persisted",
				zap.String("event_id", eventID.String()),
				zap.String("user_id", req.UserID),
				zap.Error(err),
			)
			return nil, fmt.Errorf("failed to create event details: %w", err)
		}
	}

	metrics.EventsCreated.WithLabelValues(string(eventType)).Inc()

	response := &models.CreateEventResponse{
		EventID:   eventID,
		UserID:    req.UserID,
		EventType: string(eventType),
		Timestamp: timestamp,
	}
	if source != nil {
		response.Source = *source
	}
	return response, nil
}

// GetUserEvents returns the user's events ordered by timestamp descending,
// each merged with its details payload when one exists. An empty result is
// returned as an empty slice with no error, and without touching the
// details store. A details fetch failure fails the whole query; no partial
// merge is returned.
func (s *EventService) GetUserEvents(ctx context.Context, query *models.GetUserEventsQuery) ([]models.EventResponse, error) {
	start := time.Now()

	if query.Limit <= 0 {
		query.Limit = 50
	}
	if query.EventType != "" {
		// Stored types are canonical uppercase; match the filter to them
		if parsed, err := models.ParseEventType(query.EventType); err == nil {
			query.EventType = string(parsed)
		}
	}

	s.logger.Info("Retrieving events",
		zap.String("user_id", query.UserID),
		zap.Int("limit", query.Limit),
	)

	metadataList, err := s.metadata.QueryByUser(ctx, query)
	if err != nil {
		metrics.QueryFailures.Inc()
		return nil, fmt.Errorf("failed to retrieve events: %w", err)
	}

	if len(metadataList) == 0 {
		return []models.EventResponse{}, nil
	}

	eventIDs := make([]uuid.UUID, len(metadataList))
	for i, metadata := range metadataList {
		eventIDs[i] = metadata.EventID
	}

	detailsMap, err := s.details.BatchGet(ctx, eventIDs)
	if err != nil {
		metrics.QueryFailures.Inc()
		return nil, fmt.Errorf("failed to retrieve event details: %w", err)
	}

	// Assemble responses preserving the metadata ordering
	responses := make([]models.EventResponse, 0, len(metadataList))
	for _, metadata := range metadataList {
		response := models.EventResponse{
			EventID:   metadata.EventID,
			UserID:    metadata.UserID,
			EventType: metadata.EventType,
			Timestamp: metadata.Timestamp,
		}
		if metadata.Source != nil {
			response.Source = *metadata.Source
		}
		if details, ok := detailsMap[metadata.EventID]; ok {
			response.EventDetails = details.Payload()
		}
		responses = append(responses, response)
	}

	metrics.QueryDuration.Observe(float64(time.Since(start).Milliseconds()))
	s.logger.Info("Retrieved events",
		zap.String("user_id", query.UserID),
		zap.Int("count", len(responses)),
	)
	return responses, nil
}
