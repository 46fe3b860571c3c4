package dto

import (
	"time"

	"github.com/brightdesk/portal/internal/models"
	"github.com/brightdesk/portal/internal/service"
)

// RSVPResponse is the shape of every RSVP endpoint reply.
type RSVPResponse struct {
	OK             bool                     `json:"ok"`
	State          models.RegistrationState `json:"state"`
	ConfirmedCount int64                    `json:"confirmed_count"`
	WaitlistCount  int64                    `json:"waitlist_count"`
	Notice         string                   `json:"notice,omitempty"`
}

func ToRSVPResponse(status *service.RSVPStatus) RSVPResponse {
	return RSVPResponse{
		OK:             true,
		State:          status.State,
		ConfirmedCount: status.ConfirmedCount,
		WaitlistCount:  status.WaitlistCount,
		Notice:         status.Notice,
	}
}

type EventResponse struct {
	ID       uint       `json:"id"`
	Slug     string     `json:"slug"`
	Title    string     `json:"title"`
	Location string     `json:"location,omitempty"`
	StartsAt time.Time  `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
	Capacity *int       `json:"capacity,omitempty"`
}

func ToEventResponse(e *models.Event) EventResponse {
	return EventResponse{
		ID:       e.ID,
		Slug:     e.Slug,
		Title:    e.Title,
		Location: e.Location,
		StartsAt: e.StartsAt,
		EndsAt:   e.EndsAt,
		Capacity: e.Capacity,
	}
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type RegistrationResponse struct {
	ID        uint                     `json:"id"`
	EventID   uint                     `json:"event_id"`
	UserID    uint                     `json:"user_id"`
	State     models.RegistrationState `json:"state"`
	CreatedAt time.Time                `json:"created_at"`
}

func ToRegistrationResponse(r *models.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:        r.ID,
		EventID:   r.EventID,
		UserID:    r.UserID,
		State:     r.State,
		CreatedAt: r.CreatedAt,
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
