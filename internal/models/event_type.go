package models

import (
	"fmt"
	"strings"
)

// EventType represents the type of a recorded event
type EventType string

const (
	EventTypeLogin       EventType = "LOGIN"
	EventTypeLogout      EventType = "LOGOUT"
	EventTypePurchase    EventType = "PURCHASE"
	EventTypePageView    EventType = "PAGE_VIEW"
	EventTypeError       EventType = "ERROR"
	EventTypeAPICall     EventType = "API_CALL"
	EventTypePerformance EventType = "PERFORMANCE"
	EventTypeCrash       EventType = "CRASH"
	EventTypeClick       EventType = "CLICK"
	EventTypePayment     EventType = "PAYMENT"
)

// ValidEventTypes lists every accepted event type, in the order they are
// reported in validation messages.
var ValidEventTypes = []EventType{
	EventTypeLogin,
	EventTypeLogout,
	EventTypePurchase,
	EventTypePageView,
	EventTypeError,
	EventTypeAPICall,
	EventTypePerformance,
	EventTypeCrash,
	EventTypeClick,
	EventTypePayment,
}

// ParseEventType parses a string into an EventType, case-insensitively.
// Returns an error if the event type is unknown.
func ParseEventType(name string) (EventType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))

	for _, eventType := range ValidEventTypes {
		if string(eventType) == normalized {
			return eventType, nil
		}
	}

	return "", fmt.Errorf("unknown event type: %s", name)
}
