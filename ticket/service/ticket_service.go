package service

import (
	"context"
	"strings"

	"gorm.io/gorm"

	chatmodels "support-bot-demo/backend/chat/models"
	chatrepo "support-bot-demo/backend/chat/repository"
	"support-bot-demo/backend/pkg/errors"
	"support-bot-demo/backend/pkg/events"
	"support-bot-demo/backend/ticket/models"
	"support-bot-demo/backend/ticket/repository"
)

// TicketService handles the accept side of the escalation offer: a new
// ticket marks its session escalated so the bot's widget can show the
// handoff state.
type TicketService struct {
	tickets   repository.TicketRepository
	sessions  chatrepo.SessionRepository
	publisher events.Publisher
}

func NewTicketService(tickets repository.TicketRepository, sessions chatrepo.SessionRepository, publisher events.Publisher) *TicketService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &TicketService{tickets: tickets, sessions: sessions, publisher: publisher}
}

func (s *TicketService) Create(ctx context.Context, sessionID, subject string) (*models.Ticket, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, errors.NewBadRequestError(errors.CodeValidationError, "Ticket subject is required")
	}

	if _, err := s.sessions.FindByID(ctx, sessionID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewSessionNotFound(sessionID)
		}
		return nil, errors.NewStoreError("find session", err)
	}

	ticket := &models.Ticket{
		SessionID: sessionID,
		Subject:   subject,
		Status:    models.StatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, errors.NewStoreError("create ticket", err)
	}

	if err := s.sessions.UpdateStatus(ctx, sessionID, chatmodels.SessionEscalated); err != nil {
		return nil, errors.NewStoreError("escalate session", err)
	}
	s.publisher.Publish(ctx, events.EventSessionEscalated, ticket)

	return ticket, nil
}

func (s *TicketService) Get(ctx context.Context, id uint) (*models.Ticket, error) {
	ticket, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError(errors.CodeTicketNotFound, "Ticket not found")
		}
		return nil, errors.NewStoreError("find ticket", err)
	}
	return ticket, nil
}

func (s *TicketService) List(ctx context.Context, status string, limit, offset int) ([]models.Ticket, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	tickets, err := s.tickets.List(ctx, status, limit, offset)
	if err != nil {
		return nil, errors.NewStoreError("list tickets", err)
	}
	return tickets, nil
}

func (s *TicketService) SetStatus(ctx context.Context, id uint, status string) (*models.Ticket, error) {
	switch status {
	case models.StatusOpen, models.StatusInProgress, models.StatusResolved:
	default:
		return nil, errors.NewBadRequestError(errors.CodeValidationError, "Unknown ticket status")
	}
	if err := s.tickets.UpdateStatus(ctx, id, status); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError(errors.CodeTicketNotFound, "Ticket not found")
		}
		return nil, errors.NewStoreError("update ticket", err)
	}
	return s.Get(ctx, id)
}
