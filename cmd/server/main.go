package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	chatmodels "support-bot-demo/backend/chat/models"
	knowledgemodels "support-bot-demo/backend/knowledge/models"
	"support-bot-demo/backend/pkg/config"
	"support-bot-demo/backend/pkg/di"
	"support-bot-demo/backend/pkg/logger"
	"support-bot-demo/backend/pkg/router"
	"support-bot-demo/backend/pkg/secrets"
	"support-bot-demo/backend/shared/observability"
	ticketmodels "support-bot-demo/backend/ticket/models"
	usermodels "support-bot-demo/backend/user/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdlog.Println("No .env file found")
	}

	logConfig := logger.DefaultConfig()
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		logConfig.Level = level
	}
	logConfig.JSON = os.Getenv("LOG_FORMAT") != "text"

	log := logger.New(logConfig)
	logger.SetGlobal(log)

	log.Info("Starting support bot", "version", os.Getenv("APP_VERSION"))

	shutdownTracing := observability.SetupTracing("support-bot")
	defer shutdownTracing()

	if err := secrets.Init(log); err != nil {
		log.LogError(err, "Failed to initialize secrets source")
		os.Exit(1)
	}

	cfg := config.New()
	if secret := secrets.GetSecretWithDefault(context.Background(), "jwt-secret", ""); secret != "" {
		cfg.JWT.Secret = secret
	}
	if password := secrets.GetSecretWithDefault(context.Background(), "db-password", ""); password != "" {
		cfg.Database.Password = password
	}

	db, err := config.NewDB()
	if err != nil {
		log.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&chatmodels.Session{},
		&chatmodels.Message{},
		&knowledgemodels.Intent{},
		&knowledgemodels.Faq{},
		&ticketmodels.Ticket{},
		&usermodels.User{},
	); err != nil {
		log.LogError(err, "Failed to migrate database")
		os.Exit(1)
	}

	// History reads always filter by session and order by time.
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_messages_session_time ON messages(session_id, timestamp)").Error; err != nil {
		log.LogError(err, "Failed to create message index", "index", "idx_messages_session_time")
	}

	container := di.New(db, cfg, log)

	r := router.New(container)
	r.SetupRoutes()

	if schemaPath := os.Getenv("OPENAPI_SCHEMA_PATH"); schemaPath != "" {
		r.AddOpenAPIValidation(schemaPath)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r.Engine,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogError(err, "Server failed to start")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.LogError(err, "Server forced to shutdown")
	}

	log.Info("Server exited gracefully")
}
