package repository

import (
	"context"

	"support-bot-demo/backend/knowledge/models"

	"gorm.io/gorm"
)

// FaqRepository manages the FAQ pool
type FaqRepository interface {
	Create(ctx context.Context, faq *models.Faq) error
	GetByID(ctx context.Context, id uint) (*models.Faq, error)
	GetAll(ctx context.Context) ([]models.Faq, error)
	ListActive(ctx context.Context) ([]models.Faq, error)
	Update(ctx context.Context, faq *models.Faq) error
	Delete(ctx context.Context, id uint) error
}

type GormFaqRepository struct {
	db *gorm.DB
}

func NewGormFaqRepository(db *gorm.DB) *GormFaqRepository {
	return &GormFaqRepository{db: db}
}

func (r *GormFaqRepository) Create(ctx context.Context, faq *models.Faq) error {
	return r.db.WithContext(ctx).Create(faq).Error
}

func (r *GormFaqRepository) GetByID(ctx context.Context, id uint) (*models.Faq, error) {
	var faq models.Faq
	err := r.db.WithContext(ctx).First(&faq, id).Error
	if err != nil {
		return nil, err
	}
	return &faq, nil
}

func (r *GormFaqRepository) GetAll(ctx context.Context) ([]models.Faq, error) {
	var faqs []models.Faq
	err := r.db.WithContext(ctx).Order("id ASC").Find(&faqs).Error
	return faqs, err
}

func (r *GormFaqRepository) ListActive(ctx context.Context) ([]models.Faq, error) {
	var faqs []models.Faq
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id ASC").
		Find(&faqs).Error
	return faqs, err
}

func (r *GormFaqRepository) Update(ctx context.Context, faq *models.Faq) error {
	return r.db.WithContext(ctx).Save(faq).Error
}

func (r *GormFaqRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Faq{}, id).Error
}
