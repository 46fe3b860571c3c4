package models

import "time"

type TaxonomyKind string

const (
	TaxonomyPostCategory     TaxonomyKind = "post_category"
	TaxonomyFeedbackCategory TaxonomyKind = "feedback_category"
)

type Taxonomy struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Kind      TaxonomyKind `gorm:"type:varchar(40);not null;uniqueIndex:idx_taxonomy_kind_label" json:"kind"`
	Label     string       `gorm:"not null;uniqueIndex:idx_taxonomy_kind_label" json:"label"`
	CreatedAt time.Time    `json:"created_at"`
}
