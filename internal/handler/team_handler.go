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

type TeamHandler struct {
	svc service.TeamService
}

func NewTeamHandler(svc service.TeamService) *TeamHandler {
	return &TeamHandler{svc: svc}
}

func (h *TeamHandler) RegisterRoutes(teams *echo.Group, admin *echo.Group) {
	teams.GET("", h.ListTeams)
	teams.GET("/:id", h.GetTeam)
	teams.GET("/:id/members", h.ListMembers)

	teams.GET("/:id/threads", h.ListThreads)
	teams.POST("/:id/threads", h.CreateThread)
	teams.GET("/threads/:threadID", h.GetThread)
	teams.POST("/threads/:threadID/replies", h.Reply)

	teams.GET("/:id/polls", h.ListPolls)
	teams.POST("/:id/polls", h.CreatePoll)
	teams.POST("/polls/:pollID/votes", h.Vote)
	teams.GET("/polls/:pollID/results", h.Results)

	admin.POST("/teams", h.CreateTeam)
	admin.POST("/teams/:id/members", h.AddMember)
	admin.DELETE("/teams/:id/members/:userID", h.RemoveMember)
}

func (h *TeamHandler) CreateTeam(c echo.Context) error {
	var req dto.TeamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	team := &models.Team{Name: req.Name, Slug: req.Slug}
	if err := h.svc.CreateTeam(c.Request().Context(), team); err != nil {
		if errors.Is(err, service.ErrSlugTaken) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create team")
	}
	return c.JSON(http.StatusCreated, team)
}

func (h *TeamHandler) GetTeam(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid team id")
	}
	team, err := h.svc.GetTeam(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "team not found")
	}
	return c.JSON(http.StatusOK, team)
}

func (h *TeamHandler) ListTeams(c echo.Context) error {
	teams, err := h.svc.ListTeams(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list teams")
	}
	return c.JSON(http.StatusOK, teams)
}

func (h *TeamHandler) AddMember(c echo.Context) error {
	teamID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid team id")
	}

	var req dto.AddMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	role := models.TeamRole(req.Role)
	if role == "" {
		role = models.TeamRoleMember
	}

	if err := h.svc.AddMember(c.Request().Context(), teamID, req.UserID, role); err != nil {
		if errors.Is(err, service.ErrTeamNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not add member")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TeamHandler) RemoveMember(c echo.Context) error {
	teamID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid team id")
	}
	userID, err := parseID(c, "userID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	if err := h.svc.RemoveMember(c.Request().Context(), teamID, userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not remove member")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TeamHandler) ListMembers(c echo.Context) error {
	teamID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid team id")
	}
	members, err := h.svc.ListMembers(c.Request().Context(), teamID)
	if err != nil {
		if errors.Is(err, service.ErrTeamNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list members")
	}
	return c.JSON(http.StatusOK, members)
}

func (h *TeamHandler) CreateThread(c echo.Context) error {
	teamID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid team id")
	}

	var req dto.ThreadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	thread := &models.Thread{
		TeamID:   teamID,
		AuthorID: middleware.UserID(c),
		Title:    req.Title,
		Body:     req.Body,
	}
	if err := h.svc.CreateThread(c.Request().Context(), thread); err != nil {
		if errors.Is(err, service.ErrNotTeamMember) {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create thread")
	}
	return c.JSON(http.StatusCreated, thread)
}

func (h *TeamHandler) GetThread(c echo.Context) error {
	threadID, err := parseID(c, "threadID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid thread id")
	}
	thread, err := h.svc.GetThread(c.Request().Context(), threadID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "thread not found")
	}
	return c.JSON(http.StatusOK, thread)
}

func (h *TeamHandler) ListThreads(c echo.Context) error {
	teamID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid team id")
	}
	threads, err := h.svc.ListThreads(c.Request().Context(), teamID)
	if err != nil {
		if errors.Is(err, service.ErrTeamNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list threads")
	}
	return c.JSON(http.StatusOK, threads)
}

func (h *TeamHandler) Reply(c echo.Context) error {
	threadID, err := parseID(c, "threadID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid thread id")
	}

	var req dto.ReplyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Body == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "body is required")
	}

	reply := &models.ThreadReply{
		ThreadID: threadID,
		AuthorID: middleware.UserID(c),
		Body:     req.Body,
	}
	if err := h.svc.Reply(c.Request().Context(), reply); err != nil {
		switch {
		case errors.Is(err, service.ErrThreadNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotTeamMember):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "could not post reply")
		}
	}
	return c.JSON(http.StatusCreated, reply)
}

func (h *TeamHandler) CreatePoll(c echo.Context) error {
	teamID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid team id")
	}

	var req dto.PollRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Question == "" || len(req.Options) < 2 {
		return echo.NewHTTPError(http.StatusBadRequest, "question and at least two options are required")
	}

	poll := &models.Poll{
		TeamID:    teamID,
		CreatedBy: middleware.UserID(c),
		Question:  req.Question,
	}
	for _, label := range req.Options {
		poll.Options = append(poll.Options, models.PollOption{Label: label})
	}

	if err := h.svc.CreatePoll(c.Request().Context(), poll); err != nil {
		if errors.Is(err, service.ErrNotTeamMember) {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create poll")
	}
	return c.JSON(http.StatusCreated, poll)
}

func (h *TeamHandler) ListPolls(c echo.Context) error {
	teamID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid team id")
	}
	polls, err := h.svc.ListPolls(c.Request().Context(), teamID)
	if err != nil {
		if errors.Is(err, service.ErrTeamNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list polls")
	}
	return c.JSON(http.StatusOK, polls)
}

func (h *TeamHandler) Vote(c echo.Context) error {
	pollID, err := parseID(c, "pollID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid poll id")
	}

	var req dto.VoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.OptionID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "option_id is required")
	}

	err = h.svc.Vote(c.Request().Context(), pollID, req.OptionID, middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPollNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrPollClosed), errors.Is(err, service.ErrInvalidOption):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotTeamMember):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "could not record vote")
		}
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TeamHandler) Results(c echo.Context) error {
	pollID, err := parseID(c, "pollID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid poll id")
	}

	results, err := h.svc.Results(c.Request().Context(), pollID)
	if err != nil {
		if errors.Is(err, service.ErrPollNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load results")
	}
	return c.JSON(http.StatusOK, results)
}
