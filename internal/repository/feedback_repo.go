package repository

import (
	"context"

	"github.com/brightdesk/portal/internal/models"
	"gorm.io/gorm"
)

type FeedbackRepository interface {
	Create(ctx context.Context, fb *models.Feedback) error
	CreateBatch(ctx context.Context, fbs []models.Feedback) error
	FindByID(ctx context.Context, id uint) (*models.Feedback, error)
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.Feedback, error)
	Delete(ctx context.Context, id uint) error
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, fb *models.Feedback) error {
	return r.db.WithContext(ctx).Create(fb).Error
}

func (r *feedbackRepository) CreateBatch(ctx context.Context, fbs []models.Feedback) error {
	if len(fbs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(fbs, 200).Error
}

func (r *feedbackRepository) FindByID(ctx context.Context, id uint) (*models.Feedback, error) {
	var fb models.Feedback
	if err := r.db.WithContext(ctx).First(&fb, id).Error; err != nil {
		return nil, err
	}
	return &fb, nil
}

func (r *feedbackRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Feedback, error) {
	var fbs []models.Feedback
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("occurred_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&fbs).Error; err != nil {
		return nil, err
	}
	return fbs, nil
}

func (r *feedbackRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Feedback{}, id).Error
}
