package api

import (
	"github.com/gin-gonic/gin"

	"support-bot-demo/backend/pkg/jwt"
	"support-bot-demo/backend/pkg/logger"
	"support-bot-demo/backend/pkg/middleware"
)

func RegisterRoutes(rg *gin.RouterGroup, h *AuthHandler, jwtService *jwt.Service, log *logger.Logger) {
	auth := rg.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)
		auth.GET("/me", middleware.JWTAuthMiddleware(jwtService, log), h.Me)
	}
}
