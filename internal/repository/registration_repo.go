package repository

import (
	"context"

	"github.com/brightdesk/portal/internal/models"
	"gorm.io/gorm"
)

type RegistrationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, reg *models.Registration) error
	FindByEventAndUser(ctx context.Context, tx *gorm.DB, eventID, userID uint) (*models.Registration, error)
	CountByState(ctx context.Context, tx *gorm.DB, eventID uint, state models.RegistrationState) (int64, error)
	UpdateState(ctx context.Context, tx *gorm.DB, regID uint, state models.RegistrationState) error
	Delete(ctx context.Context, tx *gorm.DB, regID uint) error
	FindFirstWaitlisted(ctx context.Context, tx *gorm.DB, eventID uint) (*models.Registration, error)
	FindByEventID(ctx context.Context, eventID uint, state *models.RegistrationState) ([]models.Registration, error)
	// InTx runs fn inside a database transaction; fn receives the
	// transaction handle to pass to the tx-aware methods above.
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	GetDB() *gorm.DB
}

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *registrationRepository) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *registrationRepository) Create(ctx context.Context, tx *gorm.DB, reg *models.Registration) error {
	return tx.WithContext(ctx).Create(reg).Error
}

func (r *registrationRepository) FindByEventAndUser(ctx context.Context, tx *gorm.DB, eventID, userID uint) (*models.Registration, error) {
	var reg models.Registration
	err := tx.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) CountByState(ctx context.Context, tx *gorm.DB, eventID uint, state models.RegistrationState) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Registration{}).
		Where("event_id = ? AND state = ?", eventID, state).
		Count(&count).Error
	return count, err
}

func (r *registrationRepository) UpdateState(ctx context.Context, tx *gorm.DB, regID uint, state models.RegistrationState) error {
	return tx.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", regID).
		Update("state", state).Error
}

func (r *registrationRepository) Delete(ctx context.Context, tx *gorm.DB, regID uint) error {
	return tx.WithContext(ctx).Delete(&models.Registration{}, regID).Error
}

// FindFirstWaitlisted returns the earliest waitlisted registration for
// promotion, FIFO by creation time with the row id as tie-break.
func (r *registrationRepository) FindFirstWaitlisted(ctx context.Context, tx *gorm.DB, eventID uint) (*models.Registration, error) {
	var reg models.Registration
	err := tx.WithContext(ctx).
		Where("event_id = ? AND state = ?", eventID, models.StateWaitlist).
		Order("created_at ASC, id ASC").
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) FindByEventID(ctx context.Context, eventID uint, state *models.RegistrationState) ([]models.Registration, error) {
	var regs []models.Registration
	q := r.db.WithContext(ctx).Where("event_id = ?", eventID)
	if state != nil {
		q = q.Where("state = ?", *state)
	}
	if err := q.Order("id ASC").Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}
