package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/brightdesk/portal/internal/dto"
	"github.com/brightdesk/portal/internal/middleware"
	"github.com/brightdesk/portal/internal/models"
	"github.com/brightdesk/portal/internal/service"
	"github.com/brightdesk/portal/pkg/monitoring"
	"github.com/labstack/echo/v4"
)

type RSVPHandler struct {
	svc service.RSVPService
}

func NewRSVPHandler(svc service.RSVPService) *RSVPHandler {
	return &RSVPHandler{svc: svc}
}

func (h *RSVPHandler) RegisterRoutes(events *echo.Group, admin *echo.Group) {
	events.GET("/:id/rsvp", h.GetState)
	events.POST("/:id/rsvp", h.Mutate)

	admin.GET("/events/:id/registrations", h.ListRegistrations)
	admin.PUT("/events/:id/registrations/:userID", h.SetState)
}

func (h *RSVPHandler) GetState(c echo.Context) error {
	eventID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	status, err := h.svc.GetState(c.Request().Context(), eventID, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load rsvp state")
	}

	return c.JSON(http.StatusOK, dto.ToRSVPResponse(status))
}

func (h *RSVPHandler) Mutate(c echo.Context) error {
	eventID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	var req dto.RSVPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	userID := middleware.UserID(c)
	ctx := c.Request().Context()

	var status *service.RSVPStatus
	switch req.Action {
	case "join":
		status, err = h.svc.Join(ctx, eventID, userID)
	case "leave":
		status, err = h.svc.Leave(ctx, eventID, userID)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "action must be \"join\" or \"leave\"")
	}

	if err != nil {
		monitoring.TrackRSVP(req.Action, "error")
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrRegistrationRace):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "rsvp update failed")
		}
	}

	monitoring.TrackRSVP(req.Action, string(status.State))
	return c.JSON(http.StatusOK, dto.ToRSVPResponse(status))
}

func (h *RSVPHandler) ListRegistrations(c echo.Context) error {
	eventID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	var state *models.RegistrationState
	if s := c.QueryParam("state"); s != "" {
		rs := models.RegistrationState(s)
		if rs != models.StateConfirmed && rs != models.StateWaitlist {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid state filter")
		}
		state = &rs
	}

	regs, err := h.svc.ListRegistrations(c.Request().Context(), eventID, state)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list registrations")
	}

	resp := make([]dto.RegistrationResponse, len(regs))
	for i, r := range regs {
		resp[i] = dto.ToRegistrationResponse(&r)
	}
	return c.JSON(http.StatusOK, resp)
}

// SetState is the admin escape hatch: it writes the given state directly
// without running the join/leave state machine.
func (h *RSVPHandler) SetState(c echo.Context) error {
	eventID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}
	userID, err := parseID(c, "userID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req dto.SetRegistrationStateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	state := models.RegistrationState(req.State)
	if state != models.StateConfirmed && state != models.StateWaitlist {
		return echo.NewHTTPError(http.StatusBadRequest, "state must be \"confirmed\" or \"waitlist\"")
	}

	status, err := h.svc.SetState(c.Request().Context(), eventID, userID, state)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound), errors.Is(err, service.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "could not update registration")
		}
	}

	return c.JSON(http.StatusOK, dto.ToRSVPResponse(status))
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
