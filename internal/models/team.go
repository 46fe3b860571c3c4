package models

import "time"

type TeamRole string

const (
	TeamRoleMember TeamRole = "member"
	TeamRoleLead   TeamRole = "lead"
)

type Team struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Members []TeamMember `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type TeamMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TeamID    uint      `gorm:"not null;uniqueIndex:idx_team_member" json:"team_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_team_member" json:"user_id"`
	Role      TeamRole  `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Thread struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TeamID    uint      `gorm:"not null;index" json:"team_id"`
	AuthorID  uint      `gorm:"not null" json:"author_id"`
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Replies []ThreadReply `gorm:"constraint:OnDelete:CASCADE" json:"replies,omitempty"`
}

type ThreadReply struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ThreadID  uint      `gorm:"not null;index" json:"thread_id"`
	AuthorID  uint      `gorm:"not null" json:"author_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type Poll struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TeamID    uint      `gorm:"not null;index" json:"team_id"`
	CreatedBy uint      `gorm:"not null" json:"created_by"`
	Question  string    `gorm:"not null" json:"question"`
	Closed    bool      `gorm:"not null;default:false" json:"closed"`
	CreatedAt time.Time `json:"created_at"`

	Options []PollOption `gorm:"constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

type PollOption struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	PollID uint   `gorm:"not null;index" json:"poll_id"`
	Label  string `gorm:"not null" json:"label"`
}

// PollVote holds one vote per user per poll; voting again moves the vote.
type PollVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PollID    uint      `gorm:"not null;uniqueIndex:idx_poll_vote" json:"poll_id"`
	OptionID  uint      `gorm:"not null" json:"option_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_poll_vote" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
