package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	chatmodels "support-bot-demo/backend/chat/models"
	"support-bot-demo/backend/pkg/errors"
	"support-bot-demo/backend/ticket/models"
)

type stubSessionRepo struct {
	sessions map[string]*chatmodels.Session
	statuses map[string]string
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{
		sessions: make(map[string]*chatmodels.Session),
		statuses: make(map[string]string),
	}
}

func (r *stubSessionRepo) Create(ctx context.Context, session *chatmodels.Session) error {
	r.sessions[session.ID] = session
	return nil
}

func (r *stubSessionRepo) FindByID(ctx context.Context, id string) (*chatmodels.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSessionRepo) UpdateActivity(ctx context.Context, id string, at time.Time) error {
	return nil
}

func (r *stubSessionRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	r.statuses[id] = status
	return nil
}

func (r *stubSessionRepo) ListRecent(ctx context.Context, limit int) ([]chatmodels.Session, error) {
	return nil, nil
}

type stubTicketRepo struct {
	mu      sync.Mutex
	tickets map[uint]*models.Ticket
	nextID  uint
}

func newStubTicketRepo() *stubTicketRepo {
	return &stubTicketRepo{tickets: make(map[uint]*models.Ticket)}
}

func (r *stubTicketRepo) Create(ctx context.Context, ticket *models.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	ticket.ID = r.nextID
	r.tickets[ticket.ID] = ticket
	return nil
}

func (r *stubTicketRepo) FindByID(ctx context.Context, id uint) (*models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *stubTicketRepo) List(ctx context.Context, status string, limit, offset int) ([]models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Ticket
	for _, t := range r.tickets {
		if status == "" || t.Status == status {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTicketRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Status = status
	return nil
}

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, event string, payload any) {
	p.events = append(p.events, event)
}

func TestCreateTicketEscalatesSession(t *testing.T) {
	sessions := newStubSessionRepo()
	sessions.sessions["s1"] = &chatmodels.Session{ID: "s1", Status: chatmodels.SessionActive}
	tickets := newStubTicketRepo()
	pub := &recordingPublisher{}

	svc := NewTicketService(tickets, sessions, pub)

	ticket, err := svc.Create(context.Background(), "s1", "Order never arrived")
	require.NoError(t, err)

	assert.Equal(t, models.StatusOpen, ticket.Status)
	assert.Equal(t, "s1", ticket.SessionID)
	assert.Equal(t, chatmodels.SessionEscalated, sessions.statuses["s1"])
	assert.Equal(t, []string{"chat.session.escalated"}, pub.events)
}

func TestCreateTicketUnknownSession(t *testing.T) {
	svc := NewTicketService(newStubTicketRepo(), newStubSessionRepo(), nil)

	_, err := svc.Create(context.Background(), "ghost", "help")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeSessionNotFound))
}

func TestCreateTicketRequiresSubject(t *testing.T) {
	sessions := newStubSessionRepo()
	sessions.sessions["s1"] = &chatmodels.Session{ID: "s1"}
	svc := NewTicketService(newStubTicketRepo(), sessions, nil)

	_, err := svc.Create(context.Background(), "s1", "   ")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
}

func TestSetStatusTransitions(t *testing.T) {
	sessions := newStubSessionRepo()
	sessions.sessions["s1"] = &chatmodels.Session{ID: "s1"}
	tickets := newStubTicketRepo()
	svc := NewTicketService(tickets, sessions, nil)

	ticket, err := svc.Create(context.Background(), "s1", "Broken widget")
	require.NoError(t, err)

	updated, err := svc.SetStatus(context.Background(), ticket.ID, models.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, updated.Status)

	_, err = svc.SetStatus(context.Background(), ticket.ID, "bogus")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))

	_, err = svc.SetStatus(context.Background(), 999, models.StatusResolved)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeTicketNotFound))
}
