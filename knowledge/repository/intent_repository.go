package repository

import (
	"context"

	"support-bot-demo/backend/knowledge/models"

	"gorm.io/gorm"
)

// IntentRepository manages the intent pool. ListActive feeds the matching
// engine; the rest serves the admin CRUD.
type IntentRepository interface {
	Create(ctx context.Context, intent *models.Intent) error
	GetByID(ctx context.Context, id uint) (*models.Intent, error)
	GetAll(ctx context.Context) ([]models.Intent, error)
	ListActive(ctx context.Context) ([]models.Intent, error)
	Update(ctx context.Context, intent *models.Intent) error
	Delete(ctx context.Context, id uint) error
}

type GormIntentRepository struct {
	db *gorm.DB
}

func NewGormIntentRepository(db *gorm.DB) *GormIntentRepository {
	return &GormIntentRepository{db: db}
}

func (r *GormIntentRepository) Create(ctx context.Context, intent *models.Intent) error {
	return r.db.WithContext(ctx).Create(intent).Error
}

func (r *GormIntentRepository) GetByID(ctx context.Context, id uint) (*models.Intent, error) {
	var intent models.Intent
	err := r.db.WithContext(ctx).First(&intent, id).Error
	if err != nil {
		return nil, err
	}
	return &intent, nil
}

func (r *GormIntentRepository) GetAll(ctx context.Context) ([]models.Intent, error) {
	var intents []models.Intent
	err := r.db.WithContext(ctx).Order("id ASC").Find(&intents).Error
	return intents, err
}

func (r *GormIntentRepository) ListActive(ctx context.Context) ([]models.Intent, error) {
	var intents []models.Intent
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id ASC").
		Find(&intents).Error
	return intents, err
}

func (r *GormIntentRepository) Update(ctx context.Context, intent *models.Intent) error {
	return r.db.WithContext(ctx).Save(intent).Error
}

func (r *GormIntentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Intent{}, id).Error
}
