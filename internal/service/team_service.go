package service

import (
	"context"
	"errors"

	"github.com/brightdesk/portal/internal/models"
	"github.com/brightdesk/portal/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTeamNotFound   = errors.New("team not found")
	ErrThreadNotFound = errors.New("thread not found")
	ErrPollNotFound   = errors.New("poll not found")
	ErrNotTeamMember  = errors.New("user is not a member of this team")
	ErrPollClosed     = errors.New("poll is closed")
	ErrInvalidOption  = errors.New("option does not belong to this poll")
)

// PollResults maps option id to vote count for one poll.
type PollResults struct {
	Poll   *models.Poll   `json:"poll"`
	Counts map[uint]int64 `json:"counts"`
}

type TeamService interface {
	CreateTeam(ctx context.Context, team *models.Team) error
	GetTeam(ctx context.Context, id uint) (*models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	AddMember(ctx context.Context, teamID, userID uint, role models.TeamRole) error
	RemoveMember(ctx context.Context, teamID, userID uint) error
	ListMembers(ctx context.Context, teamID uint) ([]models.TeamMember, error)

	CreateThread(ctx context.Context, thread *models.Thread) error
	GetThread(ctx context.Context, id uint) (*models.Thread, error)
	ListThreads(ctx context.Context, teamID uint) ([]models.Thread, error)
	Reply(ctx context.Context, reply *models.ThreadReply) error

	CreatePoll(ctx context.Context, poll *models.Poll) error
	ListPolls(ctx context.Context, teamID uint) ([]models.Poll, error)
	Vote(ctx context.Context, pollID, optionID, userID uint) error
	Results(ctx context.Context, pollID uint) (*PollResults, error)
}

type teamService struct {
	repo repository.TeamRepository
}

func NewTeamService(repo repository.TeamRepository) TeamService {
	return &teamService{repo: repo}
}

func (s *teamService) CreateTeam(ctx context.Context, team *models.Team) error {
	if team.Slug == "" {
		team.Slug = Slugify(team.Name)
	}
	if err := s.repo.Create(ctx, team); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSlugTaken
		}
		return err
	}
	return nil
}

func (s *teamService) GetTeam(ctx context.Context, id uint) (*models.Team, error) {
	team, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrTeamNotFound
	}
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context) ([]models.Team, error) {
	return s.repo.FindAll(ctx)
}

func (s *teamService) AddMember(ctx context.Context, teamID, userID uint, role models.TeamRole) error {
	if _, err := s.repo.FindByID(ctx, teamID); err != nil {
		return ErrTeamNotFound
	}
	err := s.repo.AddMember(ctx, &models.TeamMember{TeamID: teamID, UserID: userID, Role: role})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil // already a member
	}
	return err
}

func (s *teamService) RemoveMember(ctx context.Context, teamID, userID uint) error {
	return s.repo.RemoveMember(ctx, teamID, userID)
}

func (s *teamService) ListMembers(ctx context.Context, teamID uint) ([]models.TeamMember, error) {
	if _, err := s.repo.FindByID(ctx, teamID); err != nil {
		return nil, ErrTeamNotFound
	}
	return s.repo.ListMembers(ctx, teamID)
}

func (s *teamService) CreateThread(ctx context.Context, thread *models.Thread) error {
	if err := s.requireMember(ctx, thread.TeamID, thread.AuthorID); err != nil {
		return err
	}
	return s.repo.CreateThread(ctx, thread)
}

func (s *teamService) GetThread(ctx context.Context, id uint) (*models.Thread, error) {
	thread, err := s.repo.FindThread(ctx, id)
	if err != nil {
		return nil, ErrThreadNotFound
	}
	return thread, nil
}

func (s *teamService) ListThreads(ctx context.Context, teamID uint) ([]models.Thread, error) {
	if _, err := s.repo.FindByID(ctx, teamID); err != nil {
		return nil, ErrTeamNotFound
	}
	return s.repo.ListThreads(ctx, teamID)
}

func (s *teamService) Reply(ctx context.Context, reply *models.ThreadReply) error {
	thread, err := s.repo.FindThread(ctx, reply.ThreadID)
	if err != nil {
		return ErrThreadNotFound
	}
	if err := s.requireMember(ctx, thread.TeamID, reply.AuthorID); err != nil {
		return err
	}
	return s.repo.CreateReply(ctx, reply)
}

func (s *teamService) CreatePoll(ctx context.Context, poll *models.Poll) error {
	if err := s.requireMember(ctx, poll.TeamID, poll.CreatedBy); err != nil {
		return err
	}
	return s.repo.CreatePoll(ctx, poll)
}

func (s *teamService) ListPolls(ctx context.Context, teamID uint) ([]models.Poll, error) {
	if _, err := s.repo.FindByID(ctx, teamID); err != nil {
		return nil, ErrTeamNotFound
	}
	return s.repo.ListPolls(ctx, teamID)
}

// Vote records one vote per user per poll; a repeated vote moves the
// earlier one to the new option.
func (s *teamService) Vote(ctx context.Context, pollID, optionID, userID uint) error {
	poll, err := s.repo.FindPoll(ctx, pollID)
	if err != nil {
		return ErrPollNotFound
	}
	if poll.Closed {
		return ErrPollClosed
	}
	if err := s.requireMember(ctx, poll.TeamID, userID); err != nil {
		return err
	}

	valid := false
	for _, opt := range poll.Options {
		if opt.ID == optionID {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidOption
	}

	return s.repo.UpsertVote(ctx, &models.PollVote{PollID: pollID, OptionID: optionID, UserID: userID})
}

func (s *teamService) Results(ctx context.Context, pollID uint) (*PollResults, error) {
	poll, err := s.repo.FindPoll(ctx, pollID)
	if err != nil {
		return nil, ErrPollNotFound
	}
	counts, err := s.repo.CountVotes(ctx, pollID)
	if err != nil {
		return nil, err
	}
	return &PollResults{Poll: poll, Counts: counts}, nil
}

func (s *teamService) requireMember(ctx context.Context, teamID, userID uint) error {
	ok, err := s.repo.IsMember(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotTeamMember
	}
	return nil
}
