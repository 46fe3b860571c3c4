package models

import "time"

type Event struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Slug      string     `gorm:"uniqueIndex;not null" json:"slug"`
	Title     string     `gorm:"not null" json:"title"`
	Location  string     `json:"location,omitempty"`
	StartsAt  time.Time  `gorm:"not null" json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	// Capacity is the maximum number of confirmed registrations; nil = unlimited.
	Capacity  *int      `json:"capacity,omitempty"`
	CreatedBy uint      `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Registrations []Registration `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
