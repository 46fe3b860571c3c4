package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/brightdesk/portal/internal/models"
	"github.com/brightdesk/portal/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type mockEventService struct {
	createEventFn func(ctx context.Context, event *models.Event) error
	getEventFn    func(ctx context.Context, id uint) (*models.Event, error)
	deleteEventFn func(ctx context.Context, id uint) error
}

func (m *mockEventService) CreateEvent(ctx context.Context, event *models.Event) error {
	return m.createEventFn(ctx, event)
}
func (m *mockEventService) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	return m.getEventFn(ctx, id)
}
func (m *mockEventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return nil, nil
}
func (m *mockEventService) UpdateEvent(ctx context.Context, event *models.Event) error {
	return nil
}
func (m *mockEventService) DeleteEvent(ctx context.Context, id uint) error {
	return m.deleteEventFn(ctx, id)
}

func TestCreateEvent(t *testing.T) {
	var created *models.Event
	svc := &mockEventService{
		createEventFn: func(ctx context.Context, event *models.Event) error {
			event.ID = 1
			created = event
			return nil
		},
	}
	h := NewEventHandler(svc)

	body := `{"title":"All Hands","starts_at":"2026-04-01T10:00:00Z","capacity":50}`
	c, rec := rsvpTestContext(http.MethodPost, body)

	err := h.CreateEvent(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotNil(t, created)
	assert.Equal(t, "all-hands", created.Slug)
	assert.Equal(t, uint(10), created.CreatedBy)
	assert.Equal(t, 50, *created.Capacity)
}

func TestCreateEvent_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing title", `{"starts_at":"2026-04-01T10:00:00Z"}`},
		{"missing starts_at", `{"title":"All Hands"}`},
		{"ends before starts", `{"title":"All Hands","starts_at":"2026-04-01T10:00:00Z","ends_at":"2026-04-01T09:00:00Z"}`},
		{"zero capacity", `{"title":"All Hands","starts_at":"2026-04-01T10:00:00Z","capacity":0}`},
		{"negative capacity", `{"title":"All Hands","starts_at":"2026-04-01T10:00:00Z","capacity":-3}`},
	}

	h := NewEventHandler(&mockEventService{})
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := rsvpTestContext(http.MethodPost, tc.body)

			err := h.CreateEvent(c)

			he, ok := err.(*echo.HTTPError)
			assert.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, he.Code)
		})
	}
}

func TestCreateEvent_SlugConflict(t *testing.T) {
	svc := &mockEventService{
		createEventFn: func(ctx context.Context, event *models.Event) error {
			return service.ErrSlugTaken
		},
	}
	h := NewEventHandler(svc)

	c, _ := rsvpTestContext(http.MethodPost, `{"title":"All Hands","starts_at":"2026-04-01T10:00:00Z"}`)

	err := h.CreateEvent(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestDeleteEvent_NotFound(t *testing.T) {
	svc := &mockEventService{
		deleteEventFn: func(ctx context.Context, id uint) error {
			return service.ErrEventNotFound
		},
	}
	h := NewEventHandler(svc)

	c, _ := rsvpTestContext(http.MethodDelete, "")
	c.SetParamNames("id")
	c.SetParamValues("42")

	err := h.DeleteEvent(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}
