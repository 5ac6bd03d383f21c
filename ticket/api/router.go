package api

import (
	"github.com/gin-gonic/gin"

	"support-bot-demo/backend/pkg/jwt"
	"support-bot-demo/backend/pkg/logger"
	"support-bot-demo/backend/pkg/middleware"
)

// RegisterRoutes mounts the ticket endpoints. Creation is public, it is
// the accept action of the widget's escalation offer. Everything else is
// agent-side.
func RegisterRoutes(rg *gin.RouterGroup, h *TicketHandler, jwtService *jwt.Service, log *logger.Logger) {
	tickets := rg.Group("/tickets")
	{
		tickets.POST("", h.CreateTicket)

		agent := tickets.Group("")
		agent.Use(middleware.JWTAuthMiddleware(jwtService, log))
		agent.Use(middleware.RequirePermission(jwt.PermManageTickets))
		{
			agent.GET("", h.ListTickets)
			agent.GET("/:id", h.GetTicket)
			agent.PATCH("/:id/status", h.UpdateTicketStatus)
		}
	}
}
