package models

import "time"

type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string    `gorm:"not null" json:"title"`
	Body        string    `gorm:"type:text" json:"body"`
	Summary     string    `gorm:"type:text" json:"summary,omitempty"`
	SourceURL   string    `json:"source_url,omitempty"`
	CategoryID  *uint     `json:"category_id,omitempty"`
	AuthorID    *uint     `json:"author_id,omitempty"`
	PublishedAt time.Time `gorm:"not null;index" json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Category *Taxonomy `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
