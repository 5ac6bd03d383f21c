package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"support-bot-demo/backend/pkg/errors"
	"support-bot-demo/backend/ticket/models"
	"support-bot-demo/backend/ticket/service"
)

type TicketHandler struct {
	tickets *service.TicketService
}

func NewTicketHandler(tickets *service.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

type createTicketRequest struct {
	SessionID string `json:"session_id"`
	Subject   string `json:"subject"`
}

func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewBadRequestError(errors.CodeValidationError, "Invalid request body"))
		return
	}
	ticket, err := h.tickets.Create(c.Request.Context(), req.SessionID, req.Subject)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (h *TicketHandler) GetTicket(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.Error(errors.NewBadRequestError(errors.CodeValidationError, "Invalid id"))
		return
	}
	ticket, err2 := h.tickets.Get(c.Request.Context(), uint(id))
	if err2 != nil {
		c.Error(err2)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) ListTickets(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	tickets, err := h.tickets.List(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		c.Error(err)
		return
	}
	if tickets == nil {
		tickets = []models.Ticket{}
	}
	c.JSON(http.StatusOK, tickets)
}

type updateTicketStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *TicketHandler) UpdateTicketStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.Error(errors.NewBadRequestError(errors.CodeValidationError, "Invalid id"))
		return
	}
	var req updateTicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewBadRequestError(errors.CodeValidationError, "Field 'status' is required"))
		return
	}
	ticket, err2 := h.tickets.SetStatus(c.Request.Context(), uint(id), req.Status)
	if err2 != nil {
		c.Error(err2)
		return
	}
	c.JSON(http.StatusOK, ticket)
}
