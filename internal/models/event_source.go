package models

import (
	"fmt"
	"strings"
)

// EventSource identifies where an event originated
type EventSource string

const (
	EventSourceWeb    EventSource = "web"
	EventSourceMobile EventSource = "mobile"
	EventSourceAPI    EventSource = "api"
	EventSourceSystem EventSource = "system"
	EventSourceBatch  EventSource = "batch"
)

// ValidEventSources lists every accepted source label.
var ValidEventSources = []EventSource{
	EventSourceWeb,
	EventSourceMobile,
	EventSourceAPI,
	EventSourceSystem,
	EventSourceBatch,
}

// ParseEventSource parses a string into an EventSource, case-insensitively.
// Returns an error if the source is unknown.
func ParseEventSource(name string) (EventSource, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))

	for _, source := range ValidEventSources {
		if string(source) == normalized {
			return source, nil
		}
	}

	return "", fmt.Errorf("unknown event source: %s", name)
}
