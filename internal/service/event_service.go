package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/brightdesk/portal/internal/models"
	"github.com/brightdesk/portal/internal/repository"
	"gorm.io/gorm"
)

var ErrSlugTaken = errors.New("slug is already in use")

type EventService interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, id uint) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	UpdateEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, id uint) error
}

type eventService struct {
	repo repository.EventRepository
}

func NewEventService(repo repository.EventRepository) EventService {
	return &eventService{repo: repo}
}

func (s *eventService) CreateEvent(ctx context.Context, event *models.Event) error {
	if err := s.repo.Create(ctx, event); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSlugTaken
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *eventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.repo.FindAll(ctx)
}

func (s *eventService) UpdateEvent(ctx context.Context, event *models.Event) error {
	if _, err := s.repo.FindByID(ctx, event.ID); err != nil {
		return ErrEventNotFound
	}
	return s.repo.Update(ctx, event)
}

func (s *eventService) DeleteEvent(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrEventNotFound
	}
	return s.repo.Delete(ctx, id)
}
