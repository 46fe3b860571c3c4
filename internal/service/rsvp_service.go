package service

import (
	"context"
	"errors"

	"github.com/brightdesk/portal/internal/models"
	"github.com/brightdesk/portal/internal/repository"
	"github.com/brightdesk/portal/pkg/rabbitmq"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrRegistrationRace = errors.New("registration conflicts with a concurrent request")
)

const (
	noticeWaitlisted = "the event is full; you have been placed on the waitlist"
	noticePromoted   = "a seat freed up and the first waitlisted attendee was confirmed"
)

// RSVPStatus is what every RSVP operation returns: the caller's state plus
// the event-wide counts.
type RSVPStatus struct {
	State          models.RegistrationState
	ConfirmedCount int64
	WaitlistCount  int64
	Notice         string
}

type PromotionEvent struct {
	EventID uint `json:"event_id"`
	UserID  uint `json:"user_id"`
}

type RSVPService interface {
	GetState(ctx context.Context, eventID, userID uint) (*RSVPStatus, error)
	Join(ctx context.Context, eventID, userID uint) (*RSVPStatus, error)
	Leave(ctx context.Context, eventID, userID uint) (*RSVPStatus, error)
	ListRegistrations(ctx context.Context, eventID uint, state *models.RegistrationState) ([]models.Registration, error)
	SetState(ctx context.Context, eventID, userID uint, state models.RegistrationState) (*RSVPStatus, error)
}

type rsvpService struct {
	regRepo   repository.RegistrationRepository
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
	publisher *rabbitmq.Publisher
}

func NewRSVPService(regRepo repository.RegistrationRepository, eventRepo repository.EventRepository, userRepo repository.UserRepository, publisher *rabbitmq.Publisher) RSVPService {
	return &rsvpService{
		regRepo:   regRepo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

func (s *rsvpService) GetState(ctx context.Context, eventID, userID uint) (*RSVPStatus, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, ErrEventNotFound
	}

	db := s.regRepo.GetDB()
	state := StateNone
	if reg, err := s.regRepo.FindByEventAndUser(ctx, db, eventID, userID); err == nil {
		state = reg.State
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	status := &RSVPStatus{State: state}
	if err := s.fillCounts(ctx, db, eventID, status); err != nil {
		return nil, err
	}
	return status, nil
}

func (s *rsvpService) Join(ctx context.Context, eventID, userID uint) (*RSVPStatus, error) {
	var status RSVPStatus

	err := s.regRepo.InTx(ctx, func(tx *gorm.DB) error {
		// Lock the event row — serializes concurrent joins for the last seat
		event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return ErrEventNotFound
		}

		current := StateNone
		existing, err := s.regRepo.FindByEventAndUser(ctx, tx, eventID, userID)
		if err == nil {
			current = existing.State
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		confirmed, err := s.regRepo.CountByState(ctx, tx, eventID, models.StateConfirmed)
		if err != nil {
			return err
		}
		seatFree := event.Capacity == nil || confirmed < int64(*event.Capacity)

		next, effect, err := transition(current, ActionJoin, seatFree)
		if err != nil {
			return err
		}

		switch effect {
		case effectInsertConfirmed, effectInsertWaitlist:
			reg := &models.Registration{EventID: eventID, UserID: userID, State: next}
			if err := s.regRepo.Create(ctx, tx, reg); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrRegistrationRace
				}
				return err
			}
			if effect == effectInsertWaitlist {
				status.Notice = noticeWaitlisted
			}
		case effectNone:
			// Already registered: idempotent no-op, report the existing state.
		}

		status.State = next
		return s.fillCounts(ctx, tx, eventID, &status)
	})
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *rsvpService) Leave(ctx context.Context, eventID, userID uint) (*RSVPStatus, error) {
	var status RSVPStatus
	var promoted *models.Registration

	err := s.regRepo.InTx(ctx, func(tx *gorm.DB) error {
		// Lock the event row so the delete and a possible promotion are
		// atomic with respect to concurrent joins
		event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return ErrEventNotFound
		}

		current := StateNone
		var existing *models.Registration
		existing, err = s.regRepo.FindByEventAndUser(ctx, tx, eventID, userID)
		if err == nil {
			current = existing.State
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		next, effect, err := transition(current, ActionLeave, false)
		if err != nil {
			return err
		}

		if effect == effectDelete {
			if err := s.regRepo.Delete(ctx, tx, existing.ID); err != nil {
				return err
			}

			// One confirmed seat opened: promote the head of the waitlist.
			// Unlimited events never waitlist, so there is nothing to promote.
			if current == models.StateConfirmed && event.Capacity != nil {
				head, err := s.regRepo.FindFirstWaitlisted(ctx, tx, eventID)
				if err == nil {
					if err := s.regRepo.UpdateState(ctx, tx, head.ID, models.StateConfirmed); err != nil {
						return err
					}
					promoted = head
					status.Notice = noticePromoted
				} else if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
			}
		}

		status.State = next
		return s.fillCounts(ctx, tx, eventID, &status)
	})
	if err != nil {
		return nil, err
	}

	if promoted != nil && s.publisher != nil {
		_ = s.publisher.Publish(rabbitmq.KeyRSVPPromoted, PromotionEvent{
			EventID: eventID,
			UserID:  promoted.UserID,
		})
	}

	return &status, nil
}

func (s *rsvpService) ListRegistrations(ctx context.Context, eventID uint, state *models.RegistrationState) ([]models.Registration, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, ErrEventNotFound
	}
	return s.regRepo.FindByEventID(ctx, eventID, state)
}

// SetState is the administrative escape hatch: it assigns the given state
// verbatim and deliberately runs no promotion logic.
func (s *rsvpService) SetState(ctx context.Context, eventID, userID uint, state models.RegistrationState) (*RSVPStatus, error) {
	var status RSVPStatus

	err := s.regRepo.InTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.eventRepo.FindByIDForUpdate(ctx, tx, eventID); err != nil {
			return ErrEventNotFound
		}

		existing, err := s.regRepo.FindByEventAndUser(ctx, tx, eventID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// A fresh row needs a real user behind it
				if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
					return ErrUserNotFound
				}
				reg := &models.Registration{EventID: eventID, UserID: userID, State: state}
				if err := s.regRepo.Create(ctx, tx, reg); err != nil {
					return err
				}
			} else {
				return err
			}
		} else if existing.State != state {
			if err := s.regRepo.UpdateState(ctx, tx, existing.ID, state); err != nil {
				return err
			}
		}

		status.State = state
		return s.fillCounts(ctx, tx, eventID, &status)
	})
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *rsvpService) fillCounts(ctx context.Context, tx *gorm.DB, eventID uint, status *RSVPStatus) error {
	confirmed, err := s.regRepo.CountByState(ctx, tx, eventID, models.StateConfirmed)
	if err != nil {
		return err
	}
	waitlisted, err := s.regRepo.CountByState(ctx, tx, eventID, models.StateWaitlist)
	if err != nil {
		return err
	}
	status.ConfirmedCount = confirmed
	status.WaitlistCount = waitlisted
	return nil
}
