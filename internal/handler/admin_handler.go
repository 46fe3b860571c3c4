package handler

import (
	"errors"
	"net/http"

	"github.com/brightdesk/portal/internal/agent"
	"github.com/brightdesk/portal/internal/dto"
	"github.com/brightdesk/portal/internal/models"
	"github.com/brightdesk/portal/internal/service"
	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	svc       service.AdminService
	newsAgent *agent.NewsAgent
}

func NewAdminHandler(svc service.AdminService, newsAgent *agent.NewsAgent) *AdminHandler {
	return &AdminHandler{svc: svc, newsAgent: newsAgent}
}

func (h *AdminHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/users", h.ListUsers)
	admin.POST("/users", h.CreateUser)
	admin.PUT("/users/:id", h.UpdateUser)
	admin.POST("/users/import", h.ImportRoster)

	admin.GET("/taxonomies", h.ListTaxonomies)
	admin.POST("/taxonomies", h.CreateTaxonomy)
	admin.DELETE("/taxonomies/:id", h.DeleteTaxonomy)

	admin.GET("/kpis", h.ListKPIs)
	admin.PUT("/kpis", h.UpsertKPI)
	admin.DELETE("/kpis/:id", h.DeleteKPI)

	admin.POST("/agent/run", h.RunAgent)
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list users")
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req dto.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleMember
	}
	if role != models.RoleMember && role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	user := &models.User{Email: req.Email, Name: req.Name, Role: role, Active: true}
	if err := h.svc.CreateUser(c.Request().Context(), user, req.Password); err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create user")
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *AdminHandler) UpdateUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req dto.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	user, err := h.svc.GetUser(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Role != "" {
		role := models.Role(req.Role)
		if role != models.RoleMember && role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid role")
		}
		user.Role = role
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	if err := h.svc.UpdateUser(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not update user")
	}
	return c.JSON(http.StatusOK, user)
}

// ImportRoster accepts an HR CSV export as the request body and creates
// missing member accounts.
func (h *AdminHandler) ImportRoster(c echo.Context) error {
	summary, err := h.svc.ImportRoster(c.Request().Context(), c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not parse roster: "+err.Error())
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *AdminHandler) ListTaxonomies(c echo.Context) error {
	var kind *models.TaxonomyKind
	if s := c.QueryParam("kind"); s != "" {
		k := models.TaxonomyKind(s)
		kind = &k
	}

	taxes, err := h.svc.ListTaxonomies(c.Request().Context(), kind)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list taxonomies")
	}
	return c.JSON(http.StatusOK, taxes)
}

func (h *AdminHandler) CreateTaxonomy(c echo.Context) error {
	var req dto.TaxonomyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	kind := models.TaxonomyKind(req.Kind)
	if kind != models.TaxonomyPostCategory && kind != models.TaxonomyFeedbackCategory {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid taxonomy kind")
	}
	if req.Label == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "label is required")
	}

	tax := &models.Taxonomy{Kind: kind, Label: req.Label}
	if err := h.svc.CreateTaxonomy(c.Request().Context(), tax); err != nil {
		if errors.Is(err, service.ErrLabelTaken) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create taxonomy")
	}
	return c.JSON(http.StatusCreated, tax)
}

func (h *AdminHandler) DeleteTaxonomy(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid taxonomy id")
	}

	if err := h.svc.DeleteTaxonomy(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrTaxonomyNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not delete taxonomy")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) ListKPIs(c echo.Context) error {
	kpis, err := h.svc.ListKPIs(c.Request().Context(), c.QueryParam("period"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list kpis")
	}
	return c.JSON(http.StatusOK, kpis)
}

func (h *AdminHandler) UpsertKPI(c echo.Context) error {
	var req dto.KPIRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Period == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and period are required")
	}

	kpi := &models.KPI{Name: req.Name, Period: req.Period, Unit: req.Unit, Value: req.Value}
	if err := h.svc.UpsertKPI(c.Request().Context(), kpi); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not store kpi")
	}
	return c.JSON(http.StatusOK, kpi)
}

func (h *AdminHandler) DeleteKPI(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid kpi id")
	}
	if err := h.svc.DeleteKPI(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not delete kpi")
	}
	return c.NoContent(http.StatusNoContent)
}

// RunAgent triggers one news-agent pass. A run already in progress is not
// an error for the caller, just reported.
func (h *AdminHandler) RunAgent(c echo.Context) error {
	if h.newsAgent == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "news agent is not configured")
	}

	if err := h.newsAgent.Run(c.Request().Context()); err != nil {
		if errors.Is(err, agent.ErrLocked) {
			return c.JSON(http.StatusOK, map[string]string{"status": "skipped", "reason": err.Error()})
		}
		return echo.NewHTTPError(http.StatusBadGateway, "agent run failed: "+err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
