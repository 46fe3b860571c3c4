package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/brightdesk/portal/internal/dto"
	"github.com/brightdesk/portal/internal/models"
	"github.com/brightdesk/portal/internal/service"
	"github.com/labstack/echo/v4"
)

type FeedbackHandler struct {
	svc service.FeedbackService
}

func NewFeedbackHandler(svc service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

func (h *FeedbackHandler) RegisterRoutes(admin *echo.Group) {
	admin.POST("/feedback", h.Create)
	admin.GET("/users/:userID/feedback", h.ListByUser)
	admin.DELETE("/feedback/:id", h.Delete)
	admin.POST("/users/:userID/feedback/import", h.Import)
	admin.GET("/users/:userID/coaching", h.Coach)
}

func (h *FeedbackHandler) Create(c echo.Context) error {
	var req dto.FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == 0 || req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id and text are required")
	}

	fb := &models.Feedback{
		UserID:     req.UserID,
		OccurredAt: req.OccurredAt,
		Kind:       req.Kind,
		Category:   req.Category,
		Text:       req.Text,
		Reviewer:   req.Reviewer,
	}
	if err := h.svc.Create(c.Request().Context(), fb); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not store feedback")
	}
	return c.JSON(http.StatusCreated, fb)
}

func (h *FeedbackHandler) ListByUser(c echo.Context) error {
	userID, err := parseID(c, "userID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	limit := 50
	if s := c.QueryParam("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	rows, err := h.svc.ListByUser(c.Request().Context(), userID, limit)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list feedback")
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *FeedbackHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid feedback id")
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrFeedbackNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not delete feedback")
	}
	return c.NoContent(http.StatusNoContent)
}

// Import accepts a raw CSV body. With ?drop_duplicates=true repeated rows
// are skipped instead of stored twice.
func (h *FeedbackHandler) Import(c echo.Context) error {
	userID, err := parseID(c, "userID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	dropDuplicates := c.QueryParam("drop_duplicates") == "true"

	summary, err := h.svc.Import(c.Request().Context(), userID, c.Request().Body, dropDuplicates)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, "could not parse import: "+err.Error())
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *FeedbackHandler) Coach(c echo.Context) error {
	userID, err := parseID(c, "userID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	report, err := h.svc.Coach(c.Request().Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAnalysisFailed):
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "coaching failed")
		}
	}
	return c.JSON(http.StatusOK, report)
}
