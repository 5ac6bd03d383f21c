package api

import (
	"github.com/gin-gonic/gin"

	"support-bot-demo/backend/pkg/jwt"
	"support-bot-demo/backend/pkg/logger"
	"support-bot-demo/backend/pkg/middleware"
)

// RegisterRoutes mounts the chat endpoints. Session creation and
// messaging are open to widget visitors; listing and state changes
// require an authenticated agent.
func RegisterRoutes(rg *gin.RouterGroup, h *ChatHandler, jwtService *jwt.Service, log *logger.Logger) {
	chat := rg.Group("/chat")
	{
		chat.POST("/sessions", h.CreateSession)
		chat.POST("/sessions/:id/messages", h.SendMessage)
		chat.GET("/sessions/:id/messages", h.GetSessionMessages)

		agent := chat.Group("")
		agent.Use(middleware.JWTAuthMiddleware(jwtService, log))
		{
			agent.GET("/sessions", middleware.RequirePermission(jwt.PermReadSessions), h.ListSessions)
			agent.GET("/sessions/:id", middleware.RequirePermission(jwt.PermReadSessions), h.GetSession)
			agent.POST("/sessions/:id/escalate", middleware.RequirePermission(jwt.PermManageTickets), h.EscalateSession)
			agent.POST("/sessions/:id/close", middleware.RequirePermission(jwt.PermManageTickets), h.CloseSession)
		}
	}
}
