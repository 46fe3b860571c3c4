package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// KPI is a reporting figure maintained by admins, one row per
// (name, period) pair.
type KPI struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"not null;uniqueIndex:idx_kpi_name_period" json:"name"`
	Period    string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_kpi_name_period" json:"period"`
	Unit      string          `gorm:"type:varchar(20)" json:"unit"`
	Value     decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"value"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
