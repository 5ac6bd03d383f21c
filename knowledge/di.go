package main

import (
	"time"

	"gorm.io/gorm"

	"support-bot-demo/backend/knowledge/api"
	"support-bot-demo/backend/knowledge/repository"
	"support-bot-demo/backend/knowledge/service"
	"support-bot-demo/backend/pkg/cache"
)

func NewKnowledgeHandlerWithDI(db *gorm.DB) *api.KnowledgeHandler {
	svc := service.NewKnowledgeService(
		repository.NewGormIntentRepository(db),
		repository.NewGormFaqRepository(db),
		cache.New(30*time.Second, time.Minute, 100),
	)
	return api.NewKnowledgeHandler(svc)
}
