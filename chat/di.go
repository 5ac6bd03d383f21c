package main

import (
	"time"

	"gorm.io/gorm"

	"support-bot-demo/backend/chat/api"
	chatrepo "support-bot-demo/backend/chat/repository"
	"support-bot-demo/backend/chat/service"
	krepo "support-bot-demo/backend/knowledge/repository"
	kservice "support-bot-demo/backend/knowledge/service"
	"support-bot-demo/backend/pkg/cache"
	"support-bot-demo/backend/pkg/events"
	"support-bot-demo/backend/pkg/logger"
)

func NewChatHandlerWithDI(db *gorm.DB, publisher events.Publisher, cfg service.TurnConfig, log *logger.Logger) *api.ChatHandler {
	sessionRepo := chatrepo.NewGormSessionRepository(db)
	messageRepo := chatrepo.NewGormMessageRepository(db)

	knowledgeCache := cache.New(30*time.Second, time.Minute, 100)
	knowledge := kservice.NewKnowledgeService(
		krepo.NewGormIntentRepository(db),
		krepo.NewGormFaqRepository(db),
		knowledgeCache,
	)

	turns := service.NewTurnService(sessionRepo, messageRepo, knowledge, publisher, cfg, log)
	sessions := service.NewSessionService(sessionRepo, messageRepo, publisher)
	return api.NewChatHandler(turns, sessions)
}
