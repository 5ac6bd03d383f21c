package di

import (
	"time"

	"gorm.io/gorm"

	chatrepo "support-bot-demo/backend/chat/repository"
	chatservice "support-bot-demo/backend/chat/service"
	"support-bot-demo/backend/chat/ws"
	krepo "support-bot-demo/backend/knowledge/repository"
	kservice "support-bot-demo/backend/knowledge/service"
	"support-bot-demo/backend/pkg/cache"
	"support-bot-demo/backend/pkg/config"
	"support-bot-demo/backend/pkg/events"
	"support-bot-demo/backend/pkg/jwt"
	"support-bot-demo/backend/pkg/logger"
	"support-bot-demo/backend/shared/redis"
	ticketrepo "support-bot-demo/backend/ticket/repository"
	ticketservice "support-bot-demo/backend/ticket/service"
	userrepo "support-bot-demo/backend/user/repository"
	userservice "support-bot-demo/backend/user/service"
)

// Container wires every service of the combined server. The WebSocket hub
// lives here because the event fan-out needs it before the router exists.
type Container struct {
	DB     *gorm.DB
	Logger *logger.Logger
	Config *config.Config

	JWTService *jwt.Service
	Redis      *redis.RedisClient
	Hub        *ws.Hub
	Publisher  events.Publisher

	SessionService   *chatservice.SessionService
	TurnService      *chatservice.TurnService
	KnowledgeService *kservice.KnowledgeService
	TicketService    *ticketservice.TicketService
	UserService      *userservice.UserService
}

// New builds the full dependency graph. Redis is optional: when the
// connection cannot be established the event fan-out simply runs without
// the pub/sub backend.
func New(db *gorm.DB, cfg *config.Config, log *logger.Logger) *Container {
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Expiry)

	hub := ws.NewHub(log)
	go hub.Run()

	redisClient := redis.NewRedisClient()

	publishers := []events.Publisher{
		events.NewLogPublisher(log),
		events.NewBroadcastPublisher(hub, log),
	}
	if redisClient != nil {
		publishers = append(publishers, events.NewRedisPublisher(redisClient, log))
	}
	publisher := events.NewMulti(publishers...)

	sessionRepo := chatrepo.NewGormSessionRepository(db)
	messageRepo := chatrepo.NewGormMessageRepository(db)
	intentRepo := krepo.NewGormIntentRepository(db)
	faqRepo := krepo.NewGormFaqRepository(db)
	ticketRepo := ticketrepo.NewGormTicketRepository(db)
	userRepo := userrepo.NewGormUserRepository(db)

	knowledgeCache := cache.New(cfg.Cache.TTL, time.Minute, 100)
	knowledgeService := kservice.NewKnowledgeService(intentRepo, faqRepo, knowledgeCache)

	turnConfig := chatservice.TurnConfig{
		Threshold:       cfg.Bot.MatchThreshold,
		FallbackMessage: cfg.Bot.FallbackMessage,
		StoreTimeout:    cfg.Bot.StoreTimeout,
	}

	return &Container{
		DB:               db,
		Logger:           log,
		Config:           cfg,
		JWTService:       jwtService,
		Redis:            redisClient,
		Hub:              hub,
		Publisher:        publisher,
		SessionService:   chatservice.NewSessionService(sessionRepo, messageRepo, publisher),
		TurnService:      chatservice.NewTurnService(sessionRepo, messageRepo, knowledgeService, publisher, turnConfig, log),
		KnowledgeService: knowledgeService,
		TicketService:    ticketservice.NewTicketService(ticketRepo, sessionRepo, publisher),
		UserService:      userservice.NewUserService(userRepo, redisClient, jwtService),
	}
}
