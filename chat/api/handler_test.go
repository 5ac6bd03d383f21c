package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"support-bot-demo/backend/chat/models"
	"support-bot-demo/backend/chat/service"
	kmodels "support-bot-demo/backend/knowledge/models"
	"support-bot-demo/backend/pkg/errors"
	"support-bot-demo/backend/pkg/jwt"
	"support-bot-demo/backend/pkg/logger"
)

type memSessionRepo struct {
	sessions map[string]*models.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*models.Session)}
}

func (r *memSessionRepo) Create(ctx context.Context, session *models.Session) error {
	r.sessions[session.ID] = session
	return nil
}

func (r *memSessionRepo) FindByID(ctx context.Context, id string) (*models.Session, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *memSessionRepo) UpdateActivity(ctx context.Context, id string, at time.Time) error {
	if s, ok := r.sessions[id]; ok {
		s.LastActivityAt = at
	}
	return nil
}

func (r *memSessionRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	if s, ok := r.sessions[id]; ok {
		s.Status = status
	}
	return nil
}

func (r *memSessionRepo) ListRecent(ctx context.Context, limit int) ([]models.Session, error) {
	var out []models.Session
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	return out, nil
}

type memMessageRepo struct {
	messages []models.Message
	nextID   uint
}

func (r *memMessageRepo) Create(ctx context.Context, message *models.Message) error {
	r.nextID++
	message.ID = r.nextID
	r.messages = append(r.messages, *message)
	return nil
}

func (r *memMessageRepo) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	for i := range r.messages {
		if r.messages[i].ID == id {
			return &r.messages[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memMessageRepo) GetBySession(ctx context.Context, sessionID string) ([]models.Message, error) {
	var out []models.Message
	for _, m := range r.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMessageRepo) GetBySessionPaginated(ctx context.Context, sessionID string, limit, offset int) ([]models.Message, error) {
	all, _ := r.GetBySession(ctx, sessionID)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

type fixedKnowledge struct {
	intents []kmodels.Intent
	faqs    []kmodels.Faq
}

func (k fixedKnowledge) ListActiveIntents(ctx context.Context) ([]kmodels.Intent, error) {
	return k.intents, nil
}

func (k fixedKnowledge) ListActiveFaqs(ctx context.Context) ([]kmodels.Faq, error) {
	return k.faqs, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *memSessionRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New(logger.Config{Level: "error", JSON: false})
	sessions := newMemSessionRepo()
	messages := &memMessageRepo{}
	knowledge := fixedKnowledge{
		intents: []kmodels.Intent{
			{ID: 1, Name: "track_order", Phrases: kmodels.StringList{"where is my order"}, Response: "Let me check."},
		},
	}

	turns := service.NewTurnService(sessions, messages, knowledge, nil, service.DefaultTurnConfig(), log)
	sessionSvc := service.NewSessionService(sessions, messages, nil)
	handler := NewChatHandler(turns, sessionSvc)

	r := gin.New()
	r.Use(errors.ErrorHandler())
	v1 := r.Group("/api/v1")
	RegisterRoutes(v1, handler, jwt.NewService("test-secret", time.Hour), log)
	return r, sessions
}

func seedSession(repo *memSessionRepo, id string) {
	repo.sessions[id] = &models.Session{ID: id, Status: models.SessionActive, LastActivityAt: time.Now()}
}

func TestCreateSessionEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/chat/sessions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var session models.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, models.SessionActive, session.Status)
}

func TestSendMessageEmptyContentRejected(t *testing.T) {
	r, sessions := newTestRouter(t)
	seedSession(sessions, "s1")

	body := bytes.NewBufferString(`{"content": "   "}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/chat/sessions/s1/messages", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestSendMessageUnknownSession(t *testing.T) {
	r, _ := newTestRouter(t)

	body := bytes.NewBufferString(`{"content": "hello"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/chat/sessions/ghost/messages", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "SESSION_NOT_FOUND")
}

func TestSendMessageReturnsBothMessages(t *testing.T) {
	r, sessions := newTestRouter(t)
	seedSession(sessions, "s1")

	body := bytes.NewBufferString(`{"content": "where is my order"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/chat/sessions/s1/messages", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var result service.TurnResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotNil(t, result.UserMessage)
	require.NotNil(t, result.BotMessage)
	assert.Equal(t, "where is my order", result.UserMessage.Content)
	assert.Equal(t, "Let me check.", result.BotMessage.Content)
}

func TestGetMessagesUnknownSession(t *testing.T) {
	r, _ := newTestRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/chat/sessions/ghost/messages", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMessagesReturnsTranscript(t *testing.T) {
	r, sessions := newTestRouter(t)
	seedSession(sessions, "s1")

	body := bytes.NewBufferString(`{"content": "where is my order"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/chat/sessions/s1/messages", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req, _ = http.NewRequest(http.MethodGet, "/api/v1/chat/sessions/s1/messages", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var transcript []models.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &transcript))
	require.Len(t, transcript, 2)
	assert.Equal(t, models.SenderUser, transcript[0].Sender)
	assert.Equal(t, models.SenderBot, transcript[1].Sender)
}

func TestAgentRoutesRequireAuth(t *testing.T) {
	r, sessions := newTestRouter(t)
	seedSession(sessions, "s1")

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/chat/sessions/s1/escalate", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
