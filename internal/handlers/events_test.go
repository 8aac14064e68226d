package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GeorgeAadm/LogStash/internal/config"
	"github.com/GeorgeAadm/LogStash/internal/models"
	"github.com/GeorgeAadm/LogStash/internal/service"
)

// memMetadataStore filters, orders and limits like the real Postgres store.
type memMetadataStore struct {
	records []models.EventMetadata
}

func (s *memMetadataStore) Insert(_ context.Context, metadata *models.EventMetadata) error {
	s.records = append(s.records, *metadata)
	return nil
}

func (s *memMetadataStore) QueryByUser(_ context.Context, query *models.GetUserEventsQuery) ([]models.EventMetadata, error) {
	var matched []models.EventMetadata
	for _, r := range s.records {
		if r.UserID != query.UserID {
			continue
		}
		if query.EventType != "" && r.EventType != query.EventType {
			continue
		}
		if query.FromDate != nil && r.Timestamp.Before(*query.FromDate) {
			continue
		}
		if query.ToDate != nil && r.Timestamp.After(*query.ToDate) {
			continue
		}
		matched = append(matched, r)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	if len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}
	return matched, nil
}

type memDetailsStore struct {
	docs map[string]models.EventDetails
}

func (s *memDetailsStore) Put(_ context.Context, details *models.EventDetails) error {
	if s.docs == nil {
		s.docs = make(map[string]models.EventDetails)
	}
	s.docs[details.EventID] = *details
	return nil
}

func (s *memDetailsStore) BatchGet(_ context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]models.EventDetails, error) {
	results := make(map[uuid.UUID]models.EventDetails)
	for _, id := range eventIDs {
		if doc, ok := s.docs[id.String()]; ok {
			results[id] = doc
		}
	}
	return results, nil
}

func newTestApp(t *testing.T) (*fiber.App, *memDetailsStore) {
	t.Helper()

	details := &memDetailsStore{}
	svc := service.NewEventService(&memMetadataStore{}, details, zap.NewNop())
	handler := NewEventsHandler(svc, config.QueryConfig{DefaultLimit: 50, MaxLimit: 1000}, zap.NewNop())

	app := fiber.New()
	app.Post("/api/v1/events", handler.CreateEvent)
	app.Get("/api/v1/events/:userId", handler.GetUserEvents)
	return app, details
}

func postEvent(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func getEvents(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	return resp
}

func decodeList(t *testing.T, resp *http.Response) []models.EventResponse {
	t.Helper()
	var events []models.EventResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	return events
}

func TestCreateEventReturnsCreated(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postEvent(t, app, `{"userId":"u@x.com","eventType":"LOGIN","source":"web"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created models.CreateEventResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEqual(t, uuid.Nil, created.EventID)
	assert.Equal(t, "u@x.com", created.UserID)
	assert.Equal(t, "LOGIN", created.EventType)
	assert.Equal(t, "web", created.Source)
	assert.False(t, created.Timestamp.IsZero())
}

func TestCreateEventValidationFailure(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postEvent(t, app, `{"userId":"not-an-email","eventType":"INVALID_TYPE","source":"desktop"}`)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error      string `json:"error"`
		Violations []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"violations"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "validation failed", body.Error)
	require.Len(t, body.Violations, 3)
	assert.Equal(t, "UserId must be a valid email address", body.Violations[0].Message)
}

func TestCreateEventScalarDetailsRejected(t *testing.T) {
	app, details := newTestApp(t)

	resp := postEvent(t, app, `{"userId":"u@x.com","eventType":"LOGIN","eventDetails":42}`)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, details.docs)
}

func TestGetUserEventsNotFound(t *testing.T) {
	app, _ := newTestApp(t)

	resp := getEvents(t, app, "/api/v1/events/nobody@x.com")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetUserEventsBadLimit(t *testing.T) {
	app, _ := newTestApp(t)

	for _, path := range []string{
		"/api/v1/events/u@x.com?limit=0",
		"/api/v1/events/u@x.com?limit=1001",
		"/api/v1/events/u@x.com?limit=-5",
	} {
		resp := getEvents(t, app, path)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestGetUserEventsInvalidUserID(t *testing.T) {
	app, _ := newTestApp(t)

	resp := getEvents(t, app, "/api/v1/events/not-an-email")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateAndQueryRoundTrip(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postEvent(t, app, `{"userId":"u@x.com","eventType":"PURCHASE","source":"mobile","eventDetails":{"amount":99.99,"currency":"USD"}}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	queryResp := getEvents(t, app, "/api/v1/events/u@x.com")
	require.Equal(t, fiber.StatusOK, queryResp.StatusCode)

	events := decodeList(t, queryResp)
	require.Len(t, events, 1)
	assert.Equal(t, "PURCHASE", events[0].EventType)
	assert.Equal(t, "mobile", events[0].Source)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(events[0].EventDetails, &payload))
	assert.Equal(t, 99.99, payload["amount"])
	assert.Equal(t, "USD", payload["currency"])
}

func TestCreateWithoutDetailsQueryOmitsPayload(t *testing.T) {
	app, details := newTestApp(t)

	resp := postEvent(t, app, `{"userId":"u@x.com","eventType":"LOGIN"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Empty(t, details.docs, "no payload means no details write")

	events := decodeList(t, getEvents(t, app, "/api/v1/events/u@x.com"))
	require.Len(t, events, 1)
	assert.Nil(t, events[0].EventDetails)
}

func TestGetUserEventsLimitReturnsMostRecent(t *testing.T) {
	app, _ := newTestApp(t)

	var createdIDs []string
	for i := 0; i < 5; i++ {
		resp := postEvent(t, app, `{"userId":"u@x.com","eventType":"CLICK"}`)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		var created models.CreateEventResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
		createdIDs = append(createdIDs, created.EventID.String())
	}

	events := decodeList(t, getEvents(t, app, "/api/v1/events/u@x.com?limit=3"))
	require.Len(t, events, 3)

	// Most recent first: the last three creates, newest to oldest
	for i, event := range events {
		assert.Equal(t, createdIDs[4-i], event.EventID.String())
	}
}

func TestGetUserEventsFilterByType(t *testing.T) {
	app, _ := newTestApp(t)

	for _, eventType := range []string{"LOGIN", "PAGE_VIEW", "LOGIN", "ERROR"} {
		resp := postEvent(t, app, `{"userId":"u@x.com","eventType":"`+eventType+`"}`)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	events := decodeList(t, getEvents(t, app, "/api/v1/events/u@x.com?eventType=LOGIN"))
	require.Len(t, events, 2)
	for _, event := range events {
		assert.Equal(t, "LOGIN", event.EventType)
	}
}
