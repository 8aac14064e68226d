package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/GeorgeAadm/LogStash/internal/config"
	"github.com/GeorgeAadm/LogStash/internal/models"
	"github.com/GeorgeAadm/LogStash/internal/utils"
)

// DetailsRepository stores event details documents in MongoDB, keyed by the
// event id.
type DetailsRepository struct {
	collection   *mongo.Collection
	maxBatchSize int
	logger       *zap.Logger
}

// NewDetailsRepository creates a new details repository with dependencies
func NewDetailsRepository(client *mongo.Client, cfg *config.MongoConfig, logger *zap.Logger) *DetailsRepository {
	return &DetailsRepository{
		collection:   client.Database(cfg.Database).Collection(cfg.Collection),
		maxBatchSize: cfg.MaxBatchSize,
		logger:       logger,
	}
}

// Put persists one details document
func (r *DetailsRepository) Put(ctx context.Context, details *models.EventDetails) error {
	if _, err := r.collection.InsertOne(ctx, details); err != nil {
		return fmt.Errorf("failed to insert event details: %w", err)
	}

	r.logger.Debug("Inserted event details",
		zap.String("event_id", details.EventID),
		zap.String("category", details.Category),
	)
	return nil
}

// BatchGet fetches the details documents for the given event ids and returns
// them keyed by id; ids with no document are simply absent from the result.
// The id set is split into chunks of at most the configured max batch size,
// one Find per chunk, and the partial results merged.
func (r *DetailsRepository) BatchGet(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]models.EventDetails, error) {
	results := make(map[uuid.UUID]models.EventDetails, len(eventIDs))

	for _, chunk := range utils.Chunk(eventIDs, r.maxBatchSize) {
		keys := make([]string, len(chunk))
		for i, id := range chunk {
			keys[i] = id.String()
		}

		cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": keys}})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch event details batch: %w", err)
		}

		var docs []models.EventDetails
		if err := cursor.All(ctx, &docs); err != nil {
			return nil, fmt.Errorf("failed to decode event details batch: %w", err)
		}

		for _, doc := range docs {
			id, err := uuid.Parse(doc.EventID)
			if err != nil {
				r.logger.Warn("Skipping details document with malformed event id",
					zap.String("event_id", doc.EventID),
				)
				continue
			}
			results[id] = doc
		}
	}

	r.logger.Debug("Fetched event details",
		zap.Int("requested", len(eventIDs)),
		zap.Int("found", len(results)),
	)
	return results, nil
}
