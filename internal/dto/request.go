package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type EventRequest struct {
	Slug     string     `json:"slug"`
	Title    string     `json:"title"`
	Location string     `json:"location"`
	StartsAt time.Time  `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
	Capacity *int       `json:"capacity"`
}

type RSVPRequest struct {
	Action string `json:"action"`
}

type SetRegistrationStateRequest struct {
	State string `json:"state"`
}

type PostRequest struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	Summary    string `json:"summary"`
	CategoryID *uint  `json:"category_id"`
}

type TeamRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type AddMemberRequest struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
}

type ThreadRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type ReplyRequest struct {
	Body string `json:"body"`
}

type PollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type VoteRequest struct {
	OptionID uint `json:"option_id"`
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Active *bool  `json:"active"`
}

type FeedbackRequest struct {
	UserID     uint      `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Kind       string    `json:"kind"`
	Category   string    `json:"category"`
	Text       string    `json:"text"`
	Reviewer   string    `json:"reviewer"`
}

type TaxonomyRequest struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

type KPIRequest struct {
	Name   string          `json:"name"`
	Period string          `json:"period"`
	Unit   string          `json:"unit"`
	Value  decimal.Decimal `json:"value"`
}
