package repository

import (
	"context"

	"support-bot-demo/backend/ticket/models"

	"gorm.io/gorm"
)

// TicketRepository persists escalation tickets. FindByID returns
// gorm.ErrRecordNotFound when the id has no matching record.
type TicketRepository interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	FindByID(ctx context.Context, id uint) (*models.Ticket, error)
	List(ctx context.Context, status string, limit, offset int) ([]models.Ticket, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

type GormTicketRepository struct {
	db *gorm.DB
}

func NewGormTicketRepository(db *gorm.DB) *GormTicketRepository {
	return &GormTicketRepository{db: db}
}

func (r *GormTicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *GormTicketRepository) FindByID(ctx context.Context, id uint) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.WithContext(ctx).First(&ticket, id).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *GormTicketRepository) List(ctx context.Context, status string, limit, offset int) ([]models.Ticket, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var tickets []models.Ticket
	err := q.Find(&tickets).Error
	return tickets, err
}

func (r *GormTicketRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
