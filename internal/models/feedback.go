package models

import "time"

// Feedback is a single QA incident or coaching note for one employee,
// entered by hand or imported from a spreadsheet export.
type Feedback struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	OccurredAt time.Time `gorm:"not null" json:"occurred_at"`
	Kind       string    `gorm:"type:varchar(50)" json:"kind"`
	CategoryID *uint     `json:"category_id,omitempty"`
	Category   string    `gorm:"type:varchar(100)" json:"category"`
	Text       string    `gorm:"type:text" json:"text"`
	Reviewer   string    `gorm:"type:varchar(100)" json:"reviewer"`
	CreatedAt  time.Time `json:"created_at"`
}
