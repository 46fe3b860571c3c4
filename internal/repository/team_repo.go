package repository

import (
	"context"

	"github.com/brightdesk/portal/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	FindByID(ctx context.Context, id uint) (*models.Team, error)
	FindBySlug(ctx context.Context, slug string) (*models.Team, error)
	FindAll(ctx context.Context) ([]models.Team, error)

	AddMember(ctx context.Context, member *models.TeamMember) error
	RemoveMember(ctx context.Context, teamID, userID uint) error
	IsMember(ctx context.Context, teamID, userID uint) (bool, error)
	ListMembers(ctx context.Context, teamID uint) ([]models.TeamMember, error)

	CreateThread(ctx context.Context, thread *models.Thread) error
	FindThread(ctx context.Context, id uint) (*models.Thread, error)
	ListThreads(ctx context.Context, teamID uint) ([]models.Thread, error)
	CreateReply(ctx context.Context, reply *models.ThreadReply) error

	CreatePoll(ctx context.Context, poll *models.Poll) error
	FindPoll(ctx context.Context, id uint) (*models.Poll, error)
	ListPolls(ctx context.Context, teamID uint) ([]models.Poll, error)
	UpsertVote(ctx context.Context, vote *models.PollVote) error
	CountVotes(ctx context.Context, pollID uint) (map[uint]int64, error)
}

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) Create(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *teamRepository) FindByID(ctx context.Context, id uint) (*models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) FindBySlug(ctx context.Context, slug string) (*models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) FindAll(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *teamRepository) AddMember(ctx context.Context, member *models.TeamMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *teamRepository) RemoveMember(ctx context.Context, teamID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.TeamMember{}).Error
}

func (r *teamRepository) IsMember(ctx context.Context, teamID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *teamRepository) ListMembers(ctx context.Context, teamID uint) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *teamRepository) CreateThread(ctx context.Context, thread *models.Thread) error {
	return r.db.WithContext(ctx).Create(thread).Error
}

func (r *teamRepository) FindThread(ctx context.Context, id uint) (*models.Thread, error) {
	var thread models.Thread
	if err := r.db.WithContext(ctx).
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&thread, id).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *teamRepository) ListThreads(ctx context.Context, teamID uint) ([]models.Thread, error) {
	var threads []models.Thread
	if err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("updated_at DESC").
		Find(&threads).Error; err != nil {
		return nil, err
	}
	return threads, nil
}

func (r *teamRepository) CreateReply(ctx context.Context, reply *models.ThreadReply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}

func (r *teamRepository) CreatePoll(ctx context.Context, poll *models.Poll) error {
	return r.db.WithContext(ctx).Create(poll).Error
}

func (r *teamRepository) FindPoll(ctx context.Context, id uint) (*models.Poll, error) {
	var poll models.Poll
	if err := r.db.WithContext(ctx).Preload("Options").First(&poll, id).Error; err != nil {
		return nil, err
	}
	return &poll, nil
}

func (r *teamRepository) ListPolls(ctx context.Context, teamID uint) ([]models.Poll, error) {
	var polls []models.Poll
	if err := r.db.WithContext(ctx).
		Preload("Options").
		Where("team_id = ?", teamID).
		Order("id DESC").
		Find(&polls).Error; err != nil {
		return nil, err
	}
	return polls, nil
}

// UpsertVote inserts the vote or, if the user voted before, moves it to
// the new option.
func (r *teamRepository) UpsertVote(ctx context.Context, vote *models.PollVote) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "poll_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"option_id"}),
	}).Create(vote).Error
}

func (r *teamRepository) CountVotes(ctx context.Context, pollID uint) (map[uint]int64, error) {
	type row struct {
		OptionID uint
		Count    int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.PollVote{}).
		Select("option_id, count(*) as count").
		Where("poll_id = ?", pollID).
		Group("option_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.OptionID] = r.Count
	}
	return counts, nil
}
