package repository

import (
	"context"

	"github.com/brightdesk/portal/internal/models"
	"gorm.io/gorm"
)

type TaxonomyRepository interface {
	Create(ctx context.Context, tax *models.Taxonomy) error
	FindByID(ctx context.Context, id uint) (*models.Taxonomy, error)
	List(ctx context.Context, kind *models.TaxonomyKind) ([]models.Taxonomy, error)
	Delete(ctx context.Context, id uint) error
}

type taxonomyRepository struct {
	db *gorm.DB
}

func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

func (r *taxonomyRepository) Create(ctx context.Context, tax *models.Taxonomy) error {
	return r.db.WithContext(ctx).Create(tax).Error
}

func (r *taxonomyRepository) FindByID(ctx context.Context, id uint) (*models.Taxonomy, error) {
	var tax models.Taxonomy
	if err := r.db.WithContext(ctx).First(&tax, id).Error; err != nil {
		return nil, err
	}
	return &tax, nil
}

func (r *taxonomyRepository) List(ctx context.Context, kind *models.TaxonomyKind) ([]models.Taxonomy, error) {
	var taxes []models.Taxonomy
	q := r.db.WithContext(ctx).Order("label ASC")
	if kind != nil {
		q = q.Where("kind = ?", *kind)
	}
	if err := q.Find(&taxes).Error; err != nil {
		return nil, err
	}
	return taxes, nil
}

// Delete removes the taxonomy entry and nulls out rows referencing it so
// posts and feedback survive a category cleanup.
func (r *taxonomyRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Feedback{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Taxonomy{}, id).Error
	})
}
