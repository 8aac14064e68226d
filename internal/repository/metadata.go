package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/GeorgeAadm/LogStash/internal/models"
)

// MetadataRepository stores event metadata in PostgreSQL
type MetadataRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewMetadataRepository creates a new metadata repository with dependencies
func NewMetadataRepository(db *gorm.DB, logger *zap.Logger) *MetadataRepository {
	return &MetadataRepository{
		db:     db,
		logger: logger,
	}
}

// Insert persists one metadata record. Records are never updated afterwards.
func (r *MetadataRepository) Insert(ctx context.Context, metadata *models.EventMetadata) error {
	if err := r.db.WithContext(ctx).Create(metadata).Error; err != nil {
		return fmt.Errorf("failed to insert event metadata: %w", err)
	}

	r.logger.Debug("Inserted event metadata",
		zap.String("event_id", metadata.EventID.String()),
		zap.String("user_id", metadata.UserID),
	)
	return nil
}

// QueryByUser returns the metadata records matching the query filters,
// ordered by timestamp descending and truncated to the limit. From/To bounds
// are inclusive. Order among records with equal timestamps is whatever the
// database yields.
func (r *MetadataRepository) QueryByUser(ctx context.Context, query *models.GetUserEventsQuery) ([]models.EventMetadata, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", query.UserID)

	if query.EventType != "" {
		q = q.Where("event_type = ?", query.EventType)
	}
	if query.FromDate != nil {
		q = q.Where("timestamp >= ?", *query.FromDate)
	}
	if query.ToDate != nil {
		q = q.Where("timestamp <= ?", *query.ToDate)
	}

	var results []models.EventMetadata
	if err := q.Order("timestamp DESC").Limit(query.Limit).Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to query event metadata: %w", err)
	}

	r.logger.Debug("Queried event metadata",
		zap.String("user_id", query.UserID),
		zap.Int("count", len(results)),
	)
	return results, nil
}
