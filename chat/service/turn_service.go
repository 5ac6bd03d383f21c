package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"support-bot-demo/backend/chat/matcher"
	"support-bot-demo/backend/chat/models"
	"support-bot-demo/backend/chat/repository"
	kmodels "support-bot-demo/backend/knowledge/models"
	apperrors "support-bot-demo/backend/pkg/errors"
	"support-bot-demo/backend/pkg/events"
	"support-bot-demo/backend/pkg/logger"
)

// KnowledgeReader is the read-only view of the knowledge base the turn
// engine needs. The knowledge service implements it; tests substitute
// deterministic fixtures.
type KnowledgeReader interface {
	ListActiveIntents(ctx context.Context) ([]kmodels.Intent, error)
	ListActiveFaqs(ctx context.Context) ([]kmodels.Faq, error)
}

// TurnConfig tunes the turn engine
type TurnConfig struct {
	// Threshold a match must strictly exceed to be accepted
	Threshold float64
	// FallbackMessage sent with type=options when nothing matches
	FallbackMessage string
	// StoreTimeout bounds each store call inside a turn
	StoreTimeout time.Duration
}

// DefaultTurnConfig returns the built-in tuning
func DefaultTurnConfig() TurnConfig {
	return TurnConfig{
		Threshold:       matcher.DefaultThreshold,
		FallbackMessage: "I'm not sure I understood that. Would you like to open a support ticket so an agent can help you?",
		StoreTimeout:    3 * time.Second,
	}
}

// TurnResult carries both sides of one completed turn back to the caller
type TurnResult struct {
	UserMessage *models.Message `json:"userMessage"`
	BotMessage  *models.Message `json:"botMessage"`
}

// TurnService orchestrates one request/response cycle: session validation,
// inbound persistence, classification, reply construction, outbound
// persistence and listener notification. Steps run strictly in order; a
// store failure aborts the turn at that point and already-completed steps
// are not rolled back (the inbound message stays visible).
type TurnService struct {
	sessions  repository.SessionRepository
	messages  repository.MessageRepository
	knowledge KnowledgeReader
	publisher events.Publisher
	cfg       TurnConfig
	log       *logger.Logger
}

func NewTurnService(
	sessions repository.SessionRepository,
	messages repository.MessageRepository,
	knowledge KnowledgeReader,
	publisher events.Publisher,
	cfg TurnConfig,
	log *logger.Logger,
) *TurnService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = DefaultTurnConfig().StoreTimeout
	}
	if cfg.FallbackMessage == "" {
		cfg.FallbackMessage = DefaultTurnConfig().FallbackMessage
	}
	return &TurnService{
		sessions:  sessions,
		messages:  messages,
		knowledge: knowledge,
		publisher: publisher,
		cfg:       cfg,
		log:       log.WithComponent("turn"),
	}
}

// TakeTurn processes one user utterance and returns both persisted
// messages. Empty content is accepted here; rejecting it is the transport
// layer's concern.
func (s *TurnService) TakeTurn(ctx context.Context, sessionID, content string) (*TurnResult, error) {
	start := time.Now()

	// Session validation: nothing is persisted for an unknown session.
	sctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	session, err := s.sessions.FindByID(sctx, sessionID)
	cancel()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewSessionNotFound(sessionID)
		}
		turnsTotal.WithLabelValues(outcomeError).Inc()
		return nil, apperrors.NewStoreError("find session", err)
	}

	userMsg := &models.Message{
		ExternalID: uuid.New().String(),
		SessionID:  session.ID,
		Sender:     models.SenderUser,
		Content:    content,
		Type:       models.TypeText,
		Timestamp:  time.Now(),
	}
	if err := s.createMessage(ctx, userMsg); err != nil {
		turnsTotal.WithLabelValues(outcomeError).Inc()
		return nil, err
	}

	// Live listeners see the user message before classification runs.
	// A mid-turn failure therefore leaves it visible with no reply.
	s.publisher.Publish(ctx, events.EventMessageReceived, userMsg)

	intents, faqs, err := s.loadKnowledge(ctx)
	if err != nil {
		turnsTotal.WithLabelValues(outcomeError).Inc()
		return nil, err
	}

	result := matcher.ClassifyWithThreshold(content, intents, faqs, s.cfg.Threshold)
	matchScore.Observe(result.Confidence())

	botMsg := s.buildReply(session.ID, result)
	if err := s.createMessage(ctx, botMsg); err != nil {
		turnsTotal.WithLabelValues(outcomeError).Inc()
		return nil, err
	}

	s.publisher.Publish(ctx, events.EventMessageSent, botMsg)

	uctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	err = s.sessions.UpdateActivity(uctx, session.ID, time.Now())
	cancel()
	if err != nil {
		turnsTotal.WithLabelValues(outcomeError).Inc()
		return nil, apperrors.NewStoreError("update session activity", err)
	}

	turnsTotal.WithLabelValues(outcomeLabel(result)).Inc()
	turnDuration.Observe(time.Since(start).Seconds())

	s.log.Debug("turn completed",
		"session_id", session.ID,
		"outcome", outcomeLabel(result),
		"confidence", result.Confidence(),
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return &TurnResult{UserMessage: userMsg, BotMessage: botMsg}, nil
}

// loadKnowledge reads both active pools concurrently. Classification waits
// for both; either failure aborts the turn.
func (s *TurnService) loadKnowledge(ctx context.Context) ([]kmodels.Intent, []kmodels.Faq, error) {
	var (
		intents []kmodels.Intent
		faqs    []kmodels.Faq
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ictx, cancel := context.WithTimeout(gctx, s.cfg.StoreTimeout)
		defer cancel()
		var err error
		intents, err = s.knowledge.ListActiveIntents(ictx)
		return err
	})

	g.Go(func() error {
		fctx, cancel := context.WithTimeout(gctx, s.cfg.StoreTimeout)
		defer cancel()
		var err error
		faqs, err = s.knowledge.ListActiveFaqs(fctx)
		return err
	})

	if err := g.Wait(); err != nil {
		if _, ok := err.(*apperrors.AppError); ok {
			return nil, nil, err
		}
		return nil, nil, apperrors.NewStoreError("load knowledge", err)
	}
	return intents, faqs, nil
}

// buildReply turns a classification into the outbound bot message
func (s *TurnService) buildReply(sessionID string, result matcher.Result) *models.Message {
	msg := &models.Message{
		ExternalID: uuid.New().String(),
		SessionID:  sessionID,
		Sender:     models.SenderBot,
		Type:       models.TypeText,
		Timestamp:  time.Now(),
	}

	switch m := result.(type) {
	case matcher.IntentMatch:
		msg.Content = m.Intent.Response
		msg.Metadata = &models.Metadata{Confidence: m.Score, MatchedQuestion: &m.Phrase}
	case matcher.FaqMatch:
		msg.Content = m.Faq.Answer
		msg.Metadata = &models.Metadata{Confidence: m.Score, MatchedQuestion: &m.Faq.Question}
	case matcher.NoMatch:
		msg.Content = s.cfg.FallbackMessage
		msg.Type = models.TypeOptions
		msg.Metadata = &models.Metadata{Confidence: m.Score, MatchedQuestion: nil}
	}

	return msg
}

func (s *TurnService) createMessage(ctx context.Context, msg *models.Message) error {
	mctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()
	if err := s.messages.Create(mctx, msg); err != nil {
		return apperrors.NewStoreError("create message", err)
	}
	return nil
}

func outcomeLabel(result matcher.Result) string {
	switch result.(type) {
	case matcher.IntentMatch:
		return outcomeIntent
	case matcher.FaqMatch:
		return outcomeFaq
	default:
		return outcomeFallback
	}
}
