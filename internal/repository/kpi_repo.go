package repository

import (
	"context"

	"github.com/brightdesk/portal/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KPIRepository interface {
	Upsert(ctx context.Context, kpi *models.KPI) error
	List(ctx context.Context, period string) ([]models.KPI, error)
	Delete(ctx context.Context, id uint) error
}

type kpiRepository struct {
	db *gorm.DB
}

func NewKPIRepository(db *gorm.DB) KPIRepository {
	return &kpiRepository{db: db}
}

// Upsert inserts the KPI or overwrites the value for an existing
// (name, period) pair.
func (r *kpiRepository) Upsert(ctx context.Context, kpi *models.KPI) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}, {Name: "period"}},
		DoUpdates: clause.AssignmentColumns([]string{"unit", "value", "updated_at"}),
	}).Create(kpi).Error
}

func (r *kpiRepository) List(ctx context.Context, period string) ([]models.KPI, error) {
	var kpis []models.KPI
	q := r.db.WithContext(ctx).Order("name ASC")
	if period != "" {
		q = q.Where("period = ?", period)
	}
	if err := q.Find(&kpis).Error; err != nil {
		return nil, err
	}
	return kpis, nil
}

func (r *kpiRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.KPI{}, id).Error
}
