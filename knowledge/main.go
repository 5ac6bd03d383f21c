package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"support-bot-demo/backend/knowledge/api"
	"support-bot-demo/backend/pkg/errors"
	"support-bot-demo/backend/pkg/jwt"
	"support-bot-demo/backend/pkg/logger"
	"support-bot-demo/backend/shared/observability"
)

func main() {
	shutdownTracing := observability.SetupTracing("knowledge-service")
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

	handler := NewKnowledgeHandlerWithDI(db)

	r := gin.Default()
	r.Use(errors.ErrorHandler())
	v1 := r.Group("/api/v1")
	api.RegisterRoutes(v1, handler, jwtService, appLogger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8085"
	}
	log.Printf("Knowledge service listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
