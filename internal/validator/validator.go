// Package validator checks create-event requests against the static input
// rules. It has no I/O and no state: the same request always produces the
// same violations, and every rule runs so the caller sees all problems at
// once rather than the first one.
package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/GeorgeAadm/LogStash/internal/models"
)

const maxFieldLength = 100

// Standard email shape: local@domain with a dotted domain and a 2+ character
// top-level label. Not full RFC 5322.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether s matches the userId email shape.
func ValidEmail(s string) bool {
	return s != "" && len(s) <= maxFieldLength && emailPattern.MatchString(s)
}

// FieldError describes a single violation on one request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate checks a create-event request and returns the ordered list of
// violations, or nil when the request is acceptable.
func Validate(req *models.CreateEventRequest) []FieldError {
	var violations []FieldError

	violations = append(violations, validateUserID(req.UserID)...)
	violations = append(violations, validateEventType(req.EventType)...)
	violations = append(violations, validateSource(req.Source)...)
	violations = append(violations, validateEventDetails(req.EventDetails)...)

	return violations
}

func validateUserID(userID string) []FieldError {
	if userID == "" {
		return []FieldError{{Field: "userId", Message: "UserId is required"}}
	}

	var violations []FieldError
	if len(userID) > maxFieldLength {
		violations = append(violations, FieldError{
			Field:   "userId",
			Message: fmt.Sprintf("UserId must not exceed %d characters", maxFieldLength),
		})
	}
	if !emailPattern.MatchString(userID) {
		violations = append(violations, FieldError{
			Field:   "userId",
			Message: "UserId must be a valid email address",
		})
	}
	return violations
}

func validateEventType(eventType string) []FieldError {
	if eventType == "" {
		return []FieldError{{Field: "eventType", Message: "EventType is required"}}
	}

	var violations []FieldError
	if len(eventType) > maxFieldLength {
		violations = append(violations, FieldError{
			Field:   "eventType",
			Message: fmt.Sprintf("EventType must not exceed %d characters", maxFieldLength),
		})
	}
	if _, err := models.ParseEventType(eventType); err != nil {
		violations = append(violations, FieldError{
			Field:   "eventType",
			Message: "EventType must be one of: " + joinEventTypes(),
		})
	}
	return violations
}

func validateSource(source string) []FieldError {
	if source == "" {
		return nil
	}

	var violations []FieldError
	if len(source) > maxFieldLength {
		violations = append(violations, FieldError{
			Field:   "source",
			Message: fmt.Sprintf("Source must not exceed %d characters", maxFieldLength),
		})
	}
	if _, err := models.ParseEventSource(source); err != nil {
		violations = append(violations, FieldError{
			Field:   "source",
			Message: "Source must be one of: " + joinEventSources(),
		})
	}
	return violations
}

// validateEventDetails requires the payload root to be a JSON object or
// array; bare strings, numbers, booleans and null are rejected.
func validateEventDetails(details json.RawMessage) []FieldError {
	if len(details) == 0 {
		return nil
	}

	if !json.Valid(details) {
		return []FieldError{{Field: "eventDetails", Message: "EventDetails must be valid JSON"}}
	}

	trimmed := bytes.TrimLeft(details, " \t\r\n")
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return []FieldError{{Field: "eventDetails", Message: "EventDetails must be a JSON object or array"}}
	}

	return nil
}

func joinEventTypes() string {
	names := make([]string, len(models.ValidEventTypes))
	for i, t := range models.ValidEventTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func joinEventSources() string {
	names := make([]string, len(models.ValidEventSources))
	for i, s := range models.ValidEventSources {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
