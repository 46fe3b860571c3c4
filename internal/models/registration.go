package models

import "time"

type RegistrationState string

const (
	StateConfirmed RegistrationState = "confirmed"
	StateWaitlist  RegistrationState = "waitlist"
)

// Registration ties one user to one event. At most one row may exist per
// (event, user) pair, enforced by the unique index created in pkg/database.
type Registration struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	EventID   uint              `gorm:"not null;index" json:"event_id"`
	UserID    uint              `gorm:"not null" json:"user_id"`
	State     RegistrationState `gorm:"type:varchar(20);not null" json:"state"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}
