package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	chatapi "support-bot-demo/backend/chat/api"
	"support-bot-demo/backend/chat/ws"
	knowledgeapi "support-bot-demo/backend/knowledge/api"
	"support-bot-demo/backend/pkg/config"
	"support-bot-demo/backend/pkg/di"
	"support-bot-demo/backend/pkg/errors"
	"support-bot-demo/backend/pkg/logger"
	"support-bot-demo/backend/pkg/middleware"
	ticketapi "support-bot-demo/backend/ticket/api"
	userapi "support-bot-demo/backend/user/api"
)

// Router assembles the combined server's HTTP surface from the container.
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Config    *config.Config
}

func New(container *di.Container) *Router {
	logger.SetGlobal(container.Logger)
	cfg := container.Config

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(logger.Middleware(container.Logger))
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())
	engine.Use(middleware.RequestIDMiddleware())

	limiterOpts := middleware.DefaultRateLimiterOptions()
	limiterOpts.Limit = rate.Limit(cfg.Security.RateLimit)
	limiterOpts.Burst = cfg.Security.RateLimitBurst
	rateLimiter := middleware.NewRateLimiter(container.Logger, limiterOpts)
	engine.Use(rateLimiter.Middleware())

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Config:    cfg,
	}
}

// SetupRoutes registers every endpoint of the combined server.
func (r *Router) SetupRoutes() {
	r.Engine.Use(corsMiddleware())

	c := r.Container

	chatHandler := chatapi.NewChatHandler(c.TurnService, c.SessionService)
	knowledgeHandler := knowledgeapi.NewKnowledgeHandler(c.KnowledgeService)
	ticketHandler := ticketapi.NewTicketHandler(c.TicketService)
	authHandler := userapi.NewAuthHandler(c.UserService)

	v1 := r.Engine.Group("/api/v1")

	v1.GET("/health", r.healthHandler())

	chatapi.RegisterRoutes(v1, chatHandler, c.JWTService, r.Logger)
	knowledgeapi.RegisterRoutes(v1, knowledgeHandler, c.JWTService, r.Logger)
	ticketapi.RegisterRoutes(v1, ticketHandler, c.JWTService, r.Logger)
	userapi.RegisterRoutes(v1, authHandler, c.JWTService, r.Logger)

	// Agent console feed: every turn's messages are broadcast here.
	r.Engine.GET("/ws/console", func(ctx *gin.Context) {
		ws.ServeWs(c.Hub, ctx)
	})

	r.Engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Encoding, Authorization, Origin, Upgrade, Connection, Cache-Control")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Upgrade, Connection")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
