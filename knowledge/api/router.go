package api

import (
	"github.com/gin-gonic/gin"

	"support-bot-demo/backend/pkg/jwt"
	"support-bot-demo/backend/pkg/logger"
	"support-bot-demo/backend/pkg/middleware"
)

// RegisterRoutes mounts the knowledge base management endpoints. Reads are
// open to any authenticated user; writes require the knowledge permission.
func RegisterRoutes(rg *gin.RouterGroup, h *KnowledgeHandler, jwtService *jwt.Service, log *logger.Logger) {
	authed := rg.Group("")
	authed.Use(middleware.JWTAuthMiddleware(jwtService, log))

	intents := authed.Group("/intents")
	{
		intents.GET("", middleware.RequirePermission(jwt.PermReadKnowledge), h.ListIntents)
		intents.GET("/:id", middleware.RequirePermission(jwt.PermReadKnowledge), h.GetIntent)
		intents.POST("", middleware.RequirePermission(jwt.PermWriteKnowledge), h.CreateIntent)
		intents.PUT("/:id", middleware.RequirePermission(jwt.PermWriteKnowledge), h.UpdateIntent)
		intents.DELETE("/:id", middleware.RequirePermission(jwt.PermWriteKnowledge), h.DeleteIntent)
		intents.PATCH("/:id/active", middleware.RequirePermission(jwt.PermWriteKnowledge), h.SetIntentActive)
	}

	faqs := authed.Group("/faqs")
	{
		faqs.GET("", middleware.RequirePermission(jwt.PermReadKnowledge), h.ListFaqs)
		faqs.GET("/:id", middleware.RequirePermission(jwt.PermReadKnowledge), h.GetFaq)
		faqs.POST("", middleware.RequirePermission(jwt.PermWriteKnowledge), h.CreateFaq)
		faqs.PUT("/:id", middleware.RequirePermission(jwt.PermWriteKnowledge), h.UpdateFaq)
		faqs.DELETE("/:id", middleware.RequirePermission(jwt.PermWriteKnowledge), h.DeleteFaq)
		faqs.PATCH("/:id/active", middleware.RequirePermission(jwt.PermWriteKnowledge), h.SetFaqActive)
	}
}
