package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CreateEventRequest is the inbound shape for recording an event, shared by
// the HTTP handler and the AMQP ingest path.
type CreateEventRequest struct {
	UserID       string          `json:"userId"`
	EventType    string          `json:"eventType"`
	Source       string          `json:"source,omitempty"`
	EventDetails json.RawMessage `json:"eventDetails,omitempty"`
}

// HasDetails reports whether the request carries a details payload.
func (r *CreateEventRequest) HasDetails() bool {
	return len(r.EventDetails) > 0
}

// CreateEventResponse echoes the created event back to the caller.
type CreateEventResponse struct {
	EventID   uuid.UUID `json:"eventId"`
	UserID    string    `json:"userId"`
	EventType string    `json:"eventType"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source,omitempty"`
}

// EventResponse is one merged metadata+details view in a query result.
// EventDetails is absent when the event has no details record.
type EventResponse struct {
	EventID      uuid.UUID       `json:"eventId"`
	UserID       string          `json:"userId"`
	EventType    string          `json:"eventType"`
	Timestamp    time.Time       `json:"timestamp"`
	Source       string          `json:"source,omitempty"`
	EventDetails json.RawMessage `json:"eventDetails,omitempty"`
}

// GetUserEventsQuery carries the filters for a user event lookup.
// FromDate and ToDate bounds are inclusive.
type GetUserEventsQuery struct {
	UserID    string
	EventType string
	FromDate  *time.Time
	ToDate    *time.Time
	Limit     int
}
