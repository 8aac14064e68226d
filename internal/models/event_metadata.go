package models

import (
	"time"

	"github.com/google/uuid"
)

// EventMetadata is the authoritative record that an event happened.
// Stored in PostgreSQL; never updated or deleted after creation.
type EventMetadata struct {
	EventID   uuid.UUID `gorm:"type:uuid;primary_key" json:"event_id"`
	UserID    string    `gorm:"type:varchar(100);not null;index:idx_event_metadata_user_ts,priority:1" json:"user_id"`
	EventType string    `gorm:"type:varchar(100);not null" json:"event_type"`
	Timestamp time.Time `gorm:"not null;index:idx_event_metadata_user_ts,priority:2,sort:desc" json:"timestamp"`
	Source    *string   `gorm:"type:varchar(100)" json:"source,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (EventMetadata) TableName() string {
	return "event_metadata"
}
