package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/brightdesk/portal/internal/dto"
	"github.com/brightdesk/portal/internal/middleware"
	"github.com/brightdesk/portal/internal/models"
	"github.com/brightdesk/portal/internal/service"
	"github.com/labstack/echo/v4"
)

type PostHandler struct {
	svc service.NewsService
}

func NewPostHandler(svc service.NewsService) *PostHandler {
	return &PostHandler{svc: svc}
}

func (h *PostHandler) RegisterRoutes(posts *echo.Group) {
	posts.GET("", h.ListPosts)
	posts.GET("/:id", h.GetPost)
	posts.POST("", h.CreatePost)
	posts.PUT("/:id", h.UpdatePost)
	posts.DELETE("/:id", h.DeletePost)
}

func (h *PostHandler) ListPosts(c echo.Context) error {
	var categoryID *uint
	if s := c.QueryParam("category_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid category_id")
		}
		cid := uint(id)
		categoryID = &cid
	}

	limit := 20
	if s := c.QueryParam("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	offset := 0
	if s := c.QueryParam("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			offset = n
		}
	}

	posts, err := h.svc.ListPosts(c.Request().Context(), categoryID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list posts")
	}
	return c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	post, err := h.svc.GetPost(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "post not found")
	}
	return c.JSON(http.StatusOK, post)
}

func (h *PostHandler) CreatePost(c echo.Context) error {
	var req dto.PostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	authorID := middleware.UserID(c)
	post := &models.Post{
		Title:       req.Title,
		Body:        req.Body,
		Summary:     req.Summary,
		CategoryID:  req.CategoryID,
		AuthorID:    &authorID,
		PublishedAt: time.Now(),
	}

	if err := h.svc.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create post")
	}
	return c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	var req dto.PostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	existing, err := h.svc.GetPost(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "post not found")
	}

	if req.Title != "" {
		existing.Title = req.Title
	}
	if req.Body != "" {
		existing.Body = req.Body
	}
	if req.Summary != "" {
		existing.Summary = req.Summary
	}
	existing.CategoryID = req.CategoryID

	err = h.svc.UpdatePost(c.Request().Context(), existing, middleware.UserID(c), middleware.Role(c))
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not update post")
	}
	return c.JSON(http.StatusOK, existing)
}

func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	err = h.svc.DeletePost(c.Request().Context(), id, middleware.UserID(c), middleware.Role(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "could not delete post")
		}
	}
	return c.NoContent(http.StatusNoContent)
}
