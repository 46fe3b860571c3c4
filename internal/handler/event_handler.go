package handler

import (
	"errors"
	"net/http"

	"github.com/brightdesk/portal/internal/dto"
	"github.com/brightdesk/portal/internal/middleware"
	"github.com/brightdesk/portal/internal/models"
	"github.com/brightdesk/portal/internal/service"
	"github.com/labstack/echo/v4"
)

type EventHandler struct {
	svc service.EventService
}

func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) RegisterRoutes(events *echo.Group, admin *echo.Group) {
	events.GET("", h.ListEvents)
	events.GET("/:id", h.GetEvent)

	admin.POST("/events", h.CreateEvent)
	admin.PUT("/events/:id", h.UpdateEvent)
	admin.DELETE("/events/:id", h.DeleteEvent)
}

func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req dto.EventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validateEventRequest(&req); err != nil {
		return err
	}

	slug := req.Slug
	if slug == "" {
		slug = service.Slugify(req.Title)
	}

	event := &models.Event{
		Slug:      slug,
		Title:     req.Title,
		Location:  req.Location,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Capacity:  req.Capacity,
		CreatedBy: middleware.UserID(c),
	}

	if err := h.svc.CreateEvent(c.Request().Context(), event); err != nil {
		if errors.Is(err, service.ErrSlugTaken) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create event")
	}

	return c.JSON(http.StatusCreated, dto.ToEventResponse(event))
}

func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	event, err := h.svc.GetEvent(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	}

	return c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.svc.ListEvents(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list events")
	}

	resp := make([]dto.EventResponse, len(events))
	for i, e := range events {
		resp[i] = dto.ToEventResponse(&e)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *EventHandler) UpdateEvent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	var req dto.EventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validateEventRequest(&req); err != nil {
		return err
	}

	existing, err := h.svc.GetEvent(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	}

	existing.Title = req.Title
	existing.Location = req.Location
	existing.StartsAt = req.StartsAt
	existing.EndsAt = req.EndsAt
	existing.Capacity = req.Capacity
	if req.Slug != "" {
		existing.Slug = req.Slug
	}

	if err := h.svc.UpdateEvent(c.Request().Context(), existing); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not update event")
	}

	return c.JSON(http.StatusOK, dto.ToEventResponse(existing))
}

func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	if err := h.svc.DeleteEvent(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not delete event")
	}

	return c.NoContent(http.StatusNoContent)
}

func validateEventRequest(req *dto.EventRequest) error {
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if req.StartsAt.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "starts_at is required")
	}
	if req.EndsAt != nil && !req.EndsAt.After(req.StartsAt) {
		return echo.NewHTTPError(http.StatusBadRequest, "ends_at must be after starts_at")
	}
	if req.Capacity != nil && *req.Capacity <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "capacity must be positive or omitted")
	}
	return nil
}
