package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"support-bot-demo/backend/chat/models"
	"support-bot-demo/backend/chat/repository"
	apperrors "support-bot-demo/backend/pkg/errors"
	"support-bot-demo/backend/pkg/events"
)

// SessionService creates sessions on first interaction and applies the
// status transitions driven from outside the turn engine (agent console
// escalation, widget close).
type SessionService struct {
	sessions  repository.SessionRepository
	messages  repository.MessageRepository
	publisher events.Publisher
}

func NewSessionService(sessions repository.SessionRepository, messages repository.MessageRepository, publisher events.Publisher) *SessionService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &SessionService{sessions: sessions, messages: messages, publisher: publisher}
}

// Create starts a session. userID is nil for anonymous/guest visitors.
func (s *SessionService) Create(ctx context.Context, userID *uint) (*models.Session, error) {
	session := &models.Session{
		ID:             uuid.New().String(),
		UserID:         userID,
		Status:         models.SessionActive,
		LastActivityAt: time.Now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, apperrors.NewStoreError("create session", err)
	}
	return session, nil
}

// Get looks up a session by id
func (s *SessionService) Get(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewSessionNotFound(id)
		}
		return nil, apperrors.NewStoreError("find session", err)
	}
	return session, nil
}

// History returns the session transcript, oldest first
func (s *SessionService) History(ctx context.Context, id string, limit, offset int) ([]models.Message, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	messages, err := s.messages.GetBySessionPaginated(ctx, id, limit, offset)
	if err != nil {
		return nil, apperrors.NewStoreError("list messages", err)
	}
	return messages, nil
}

// Escalate hands the session to a human agent
func (s *SessionService) Escalate(ctx context.Context, id string) (*models.Session, error) {
	return s.transition(ctx, id, models.SessionEscalated)
}

// Close ends the session
func (s *SessionService) Close(ctx context.Context, id string) (*models.Session, error) {
	return s.transition(ctx, id, models.SessionClosed)
}

// ListRecent feeds the agent console's session overview
func (s *SessionService) ListRecent(ctx context.Context, limit int) ([]models.Session, error) {
	if limit <= 0 {
		limit = 50
	}
	sessions, err := s.sessions.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperrors.NewStoreError("list sessions", err)
	}
	return sessions, nil
}

func (s *SessionService) transition(ctx context.Context, id, status string) (*models.Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.UpdateStatus(ctx, id, status); err != nil {
		return nil, apperrors.NewStoreError("update session status", err)
	}
	session.Status = status
	if status == models.SessionEscalated {
		s.publisher.Publish(ctx, events.EventSessionEscalated, session)
	}
	return session, nil
}
