package models

import (
	"encoding/json"
	"time"
)

// EventDetails is the optional schemaless twin of an EventMetadata record,
// stored in MongoDB keyed by the event id. UserID, EventType and Category are
// denormalized copies fixed at write time; Details holds the caller's payload
// as raw JSON text so it round-trips byte-for-byte.
type EventDetails struct {
	EventID   string    `bson:"_id"`
	Details   string    `bson:"details,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UserID    string    `bson:"user_id"`
	EventType string    `bson:"event_type"`
	Category  string    `bson:"category"`
}

// Payload returns the stored details document as raw JSON, or nil when the
// record carries no payload.
func (d *EventDetails) Payload() json.RawMessage {
	if d.Details == "" {
		return nil
	}
	return json.RawMessage(d.Details)
}
