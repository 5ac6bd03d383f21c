package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"support-bot-demo/backend/chat/api"
	"support-bot-demo/backend/chat/service"
	"support-bot-demo/backend/chat/ws"
	"support-bot-demo/backend/pkg/errors"
	"support-bot-demo/backend/pkg/events"
	"support-bot-demo/backend/pkg/jwt"
	"support-bot-demo/backend/pkg/logger"
	"support-bot-demo/backend/shared/observability"
)

// Standalone entry point for running the chat service on its own.
// The combined server in cmd/server wires the same handlers.
func main() {
	shutdownTracing := observability.SetupTracing("chat-service")
	defer shutdownTracing()
	_ = observability.SetupPrometheusMetrics()

	appLogger := logger.New(logger.Config{Level: "info", JSON: true, Output: os.Stdout})
	logger.SetGlobal(appLogger)

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN environment variable not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	jwtExpiry := 24 * time.Hour
	if expStr := os.Getenv("JWT_EXPIRY_HOURS"); expStr != "" {
		if exp, err := strconv.Atoi(expStr); err == nil {
			jwtExpiry = time.Duration(exp) * time.Hour
		}
	}
	jwtService := jwt.NewService(jwtSecret, jwtExpiry)

	hub := ws.NewHub(appLogger)
	go hub.Run()

	publisher := events.NewMulti(
		events.NewLogPublisher(appLogger),
		events.NewBroadcastPublisher(hub, appLogger),
	)

	handler := NewChatHandlerWithDI(db, publisher, service.DefaultTurnConfig(), appLogger)

	r := gin.Default()
	r.Use(errors.ErrorHandler())
	v1 := r.Group("/api/v1")
	api.RegisterRoutes(v1, handler, jwtService, appLogger)
	r.GET("/ws/console", func(c *gin.Context) {
		ws.ServeWs(hub, c)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8084"
	}
	log.Printf("Chat service listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
