package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"support-bot-demo/backend/chat/models"
	kmodels "support-bot-demo/backend/knowledge/models"
	apperrors "support-bot-demo/backend/pkg/errors"
	"support-bot-demo/backend/pkg/events"
	"support-bot-demo/backend/pkg/logger"
)

type stubSessionRepo struct {
	mu       sync.Mutex
	session  *models.Session
	findErr  error
	touchErr error
	touched  []string
	statuses map[string]string
}

func (s *stubSessionRepo) Create(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	return nil
}

func (s *stubSessionRepo) FindByID(ctx context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.session == nil || s.session.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.session
	return &copied, nil
}

func (s *stubSessionRepo) UpdateActivity(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.touchErr != nil {
		return s.touchErr
	}
	s.touched = append(s.touched, id)
	return nil
}

func (s *stubSessionRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statuses == nil {
		s.statuses = make(map[string]string)
	}
	s.statuses[id] = status
	return nil
}

func (s *stubSessionRepo) ListRecent(ctx context.Context, limit int) ([]models.Session, error) {
	return nil, nil
}

type stubMessageRepo struct {
	mu        sync.Mutex
	created   []*models.Message
	failAfter int // fail the Nth create (1-based); 0 means never fail
}

func (s *stubMessageRepo) Create(ctx context.Context, message *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAfter > 0 && len(s.created)+1 == s.failAfter {
		return errors.New("disk full")
	}
	s.created = append(s.created, message)
	return nil
}

func (s *stubMessageRepo) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubMessageRepo) GetBySession(ctx context.Context, sessionID string) ([]models.Message, error) {
	return nil, nil
}

func (s *stubMessageRepo) GetBySessionPaginated(ctx context.Context, sessionID string, limit, offset int) ([]models.Message, error) {
	return nil, nil
}

type stubKnowledge struct {
	intents    []kmodels.Intent
	faqs       []kmodels.Faq
	intentErr  error
	faqErr     error
	perCallLag time.Duration
}

func (s *stubKnowledge) ListActiveIntents(ctx context.Context) ([]kmodels.Intent, error) {
	if s.perCallLag > 0 {
		time.Sleep(s.perCallLag)
	}
	return s.intents, s.intentErr
}

func (s *stubKnowledge) ListActiveFaqs(ctx context.Context) ([]kmodels.Faq, error) {
	if s.perCallLag > 0 {
		time.Sleep(s.perCallLag)
	}
	return s.faqs, s.faqErr
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

type panicPublisher struct{}

func (panicPublisher) Publish(ctx context.Context, event string, payload any) {
	panic("broker gone")
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", JSON: false})
}

func newTestTurnService(sessions *stubSessionRepo, messages *stubMessageRepo, knowledge *stubKnowledge, pub *recordingPublisher) *TurnService {
	return NewTurnService(sessions, messages, knowledge, pub, DefaultTurnConfig(), testLogger())
}

func activeSession(id string) *models.Session {
	return &models.Session{ID: id, Status: models.SessionActive, LastActivityAt: time.Now()}
}

func TestTakeTurnIntentMatch(t *testing.T) {
	sessions := &stubSessionRepo{session: activeSession("s1")}
	messages := &stubMessageRepo{}
	knowledge := &stubKnowledge{
		intents: []kmodels.Intent{
			{ID: 1, Name: "track_order", Phrases: kmodels.StringList{"where is my order"}, Response: "Let me look that up for you."},
		},
	}
	pub := &recordingPublisher{}
	svc := newTestTurnService(sessions, messages, knowledge, pub)

	result, err := svc.TakeTurn(context.Background(), "s1", "where is my order")
	require.NoError(t, err)

	assert.Equal(t, models.SenderUser, result.UserMessage.Sender)
	assert.Equal(t, "where is my order", result.UserMessage.Content)
	assert.Equal(t, models.TypeText, result.UserMessage.Type)

	assert.Equal(t, models.SenderBot, result.BotMessage.Sender)
	assert.Equal(t, "Let me look that up for you.", result.BotMessage.Content)
	assert.Equal(t, models.TypeText, result.BotMessage.Type)
	require.NotNil(t, result.BotMessage.Metadata)
	assert.Equal(t, 1.0, result.BotMessage.Metadata.Confidence)
	require.NotNil(t, result.BotMessage.Metadata.MatchedQuestion)
	assert.Equal(t, "where is my order", *result.BotMessage.Metadata.MatchedQuestion)

	assert.Len(t, messages.created, 2)
	assert.Equal(t, []string{"s1"}, sessions.touched)
	assert.Equal(t, []string{"chat.message.received", "chat.message.sent"}, pub.events)
}

func TestTakeTurnFaqMatch(t *testing.T) {
	sessions := &stubSessionRepo{session: activeSession("s1")}
	messages := &stubMessageRepo{}
	knowledge := &stubKnowledge{
		faqs: []kmodels.Faq{
			{ID: 1, Question: "return policy", Answer: "You have 30 days to return any item."},
		},
	}
	svc := newTestTurnService(sessions, messages, knowledge, &recordingPublisher{})

	result, err := svc.TakeTurn(context.Background(), "s1", "what is your return policy")
	require.NoError(t, err)

	assert.Equal(t, "You have 30 days to return any item.", result.BotMessage.Content)
	assert.Equal(t, models.TypeText, result.BotMessage.Type)
	require.NotNil(t, result.BotMessage.Metadata)
	assert.Greater(t, result.BotMessage.Metadata.Confidence, 0.6)
	require.NotNil(t, result.BotMessage.Metadata.MatchedQuestion)
	assert.Equal(t, "return policy", *result.BotMessage.Metadata.MatchedQuestion)
}

func TestTakeTurnFallback(t *testing.T) {
	sessions := &stubSessionRepo{session: activeSession("s1")}
	messages := &stubMessageRepo{}
	knowledge := &stubKnowledge{
		intents: []kmodels.Intent{
			{ID: 1, Name: "track_order", Phrases: kmodels.StringList{"where is my order"}, Response: "Looking it up."},
		},
	}
	svc := newTestTurnService(sessions, messages, knowledge, &recordingPublisher{})

	result, err := svc.TakeTurn(context.Background(), "s1", "zzzz qqqq")
	require.NoError(t, err)

	assert.Equal(t, DefaultTurnConfig().FallbackMessage, result.BotMessage.Content)
	assert.Equal(t, models.TypeOptions, result.BotMessage.Type)
	require.NotNil(t, result.BotMessage.Metadata)
	assert.Nil(t, result.BotMessage.Metadata.MatchedQuestion)
}

func TestTakeTurnUnknownSessionPersistsNothing(t *testing.T) {
	sessions := &stubSessionRepo{}
	messages := &stubMessageRepo{}
	pub := &recordingPublisher{}
	svc := newTestTurnService(sessions, messages, &stubKnowledge{}, pub)

	result, err := svc.TakeTurn(context.Background(), "ghost", "hello")
	require.Error(t, err)
	assert.Nil(t, result)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeSessionNotFound, appErr.Code)

	assert.Empty(t, messages.created)
	assert.Empty(t, pub.events)
	assert.Empty(t, sessions.touched)
}

func TestTakeTurnKnowledgeFailureAborts(t *testing.T) {
	sessions := &stubSessionRepo{session: activeSession("s1")}
	messages := &stubMessageRepo{}
	knowledge := &stubKnowledge{faqErr: errors.New("connection reset")}
	svc := newTestTurnService(sessions, messages, knowledge, &recordingPublisher{})

	_, err := svc.TakeTurn(context.Background(), "s1", "hello")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeStoreError, appErr.Code)

	// The inbound message was already written before classification failed.
	assert.Len(t, messages.created, 1)
	assert.Equal(t, models.SenderUser, messages.created[0].Sender)
}

func TestTakeTurnBotPersistFailure(t *testing.T) {
	sessions := &stubSessionRepo{session: activeSession("s1")}
	messages := &stubMessageRepo{failAfter: 2}
	knowledge := &stubKnowledge{}
	svc := newTestTurnService(sessions, messages, knowledge, &recordingPublisher{})

	_, err := svc.TakeTurn(context.Background(), "s1", "hello")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeStoreError, appErr.Code)

	assert.Len(t, messages.created, 1)
	assert.Empty(t, sessions.touched)
}

func TestTakeTurnActivityUpdateFailure(t *testing.T) {
	sessions := &stubSessionRepo{session: activeSession("s1"), touchErr: errors.New("lock timeout")}
	messages := &stubMessageRepo{}
	svc := newTestTurnService(sessions, messages, &stubKnowledge{}, &recordingPublisher{})

	_, err := svc.TakeTurn(context.Background(), "s1", "hello")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeStoreError, appErr.Code)

	// Both messages exist; only the activity touch failed.
	assert.Len(t, messages.created, 2)
}

func TestTakeTurnSurvivesBrokenPublisher(t *testing.T) {
	sessions := &stubSessionRepo{session: activeSession("s1")}
	messages := &stubMessageRepo{}
	pub := events.NewMulti(panicPublisher{})
	svc := NewTurnService(sessions, messages, &stubKnowledge{}, pub, DefaultTurnConfig(), testLogger())

	result, err := svc.TakeTurn(context.Background(), "s1", "hello")
	require.NoError(t, err)
	assert.NotNil(t, result.BotMessage)
	assert.Len(t, messages.created, 2)
}

func TestTakeTurnLoadsPoolsConcurrently(t *testing.T) {
	const lag = 150 * time.Millisecond

	sessions := &stubSessionRepo{session: activeSession("s1")}
	messages := &stubMessageRepo{}
	knowledge := &stubKnowledge{perCallLag: lag}
	svc := newTestTurnService(sessions, messages, knowledge, &recordingPublisher{})

	start := time.Now()
	_, err := svc.TakeTurn(context.Background(), "s1", "hello")
	elapsed := time.Since(start)

	require.NoError(t, err)
	// Sequential reads would take at least 2x the lag.
	assert.Less(t, elapsed, 2*lag)
	assert.GreaterOrEqual(t, elapsed, lag)
}

func TestTakeTurnEmptyPoolsFallBack(t *testing.T) {
	sessions := &stubSessionRepo{session: activeSession("s1")}
	messages := &stubMessageRepo{}
	svc := newTestTurnService(sessions, messages, &stubKnowledge{}, &recordingPublisher{})

	result, err := svc.TakeTurn(context.Background(), "s1", "hello")
	require.NoError(t, err)

	assert.Equal(t, models.TypeOptions, result.BotMessage.Type)
	require.NotNil(t, result.BotMessage.Metadata)
	assert.Equal(t, 0.0, result.BotMessage.Metadata.Confidence)
}
