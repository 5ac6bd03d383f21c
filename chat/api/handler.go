package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"support-bot-demo/backend/chat/models"
	"support-bot-demo/backend/chat/service"
	"support-bot-demo/backend/pkg/errors"
)

type ChatHandler struct {
	turns    *service.TurnService
	sessions *service.SessionService
}

func NewChatHandler(turns *service.TurnService, sessions *service.SessionService) *ChatHandler {
	return &ChatHandler{turns: turns, sessions: sessions}
}

type createSessionRequest struct {
	UserID *uint `json:"userId"`
}

func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	// Body is optional: anonymous visitors send none
	_ = c.ShouldBindJSON(&req)

	session, err := h.sessions.Create(c.Request.Context(), req.UserID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessage runs one turn. Empty content is rejected here, before the
// turn engine is invoked.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	sessionID := c.Param("id")

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewBadRequestError(errors.CodeValidationError, "Invalid request body"))
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		c.Error(errors.NewBadRequestError(errors.CodeValidationError, "Message content is required"))
		return
	}

	result, err := h.turns.TakeTurn(c.Request.Context(), sessionID, req.Content)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *ChatHandler) GetSessionMessages(c *gin.Context) {
	sessionID := c.Param("id")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := h.sessions.History(c.Request.Context(), sessionID, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	c.JSON(http.StatusOK, messages)
}

func (h *ChatHandler) GetSession(c *gin.Context) {
	session, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *ChatHandler) EscalateSession(c *gin.Context) {
	session, err := h.sessions.Escalate(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *ChatHandler) CloseSession(c *gin.Context) {
	session, err := h.sessions.Close(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *ChatHandler) ListSessions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	sessions, err := h.sessions.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}
