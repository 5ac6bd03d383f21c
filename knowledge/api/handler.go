package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"support-bot-demo/backend/knowledge/models"
	"support-bot-demo/backend/knowledge/service"
	"support-bot-demo/backend/pkg/errors"
)

type KnowledgeHandler struct {
	knowledge *service.KnowledgeService
}

func NewKnowledgeHandler(knowledge *service.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{knowledge: knowledge}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.Error(errors.NewBadRequestError(errors.CodeValidationError, "Invalid id"))
		return 0, false
	}
	return uint(id), true
}

func (h *KnowledgeHandler) CreateIntent(c *gin.Context) {
	var intent models.Intent
	if err := c.ShouldBindJSON(&intent); err != nil {
		c.Error(errors.NewBadRequestError(errors.CodeValidationError, "Invalid request body"))
		return
	}
	if err := h.knowledge.CreateIntent(c.Request.Context(), &intent); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, intent)
}

func (h *KnowledgeHandler) GetIntent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	intent, err := h.knowledge.GetIntent(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, intent)
}

func (h *KnowledgeHandler) ListIntents(c *gin.Context) {
	intents, err := h.knowledge.ListIntents(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	if intents == nil {
		intents = []models.Intent{}
	}
	c.JSON(http.StatusOK, intents)
}

func (h *KnowledgeHandler) UpdateIntent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var intent models.Intent
	if err := c.ShouldBindJSON(&intent); err != nil {
		c.Error(errors.NewBadRequestError(errors.CodeValidationError, "Invalid request body"))
		return
	}
	intent.ID = id
	if err := h.knowledge.UpdateIntent(c.Request.Context(), &intent); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, intent)
}

func (h *KnowledgeHandler) DeleteIntent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.knowledge.DeleteIntent(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *KnowledgeHandler) SetIntentActive(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewBadRequestError(errors.CodeValidationError, "Field 'active' is required"))
		return
	}
	if err := h.knowledge.SetIntentActive(c.Request.Context(), id, *req.Active); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *KnowledgeHandler) CreateFaq(c *gin.Context) {
	var faq models.Faq
	if err := c.ShouldBindJSON(&faq); err != nil {
		c.Error(errors.NewBadRequestError(errors.CodeValidationError, "Invalid request body"))
		return
	}
	if err := h.knowledge.CreateFaq(c.Request.Context(), &faq); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, faq)
}

func (h *KnowledgeHandler) GetFaq(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	faq, err := h.knowledge.GetFaq(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, faq)
}

func (h *KnowledgeHandler) ListFaqs(c *gin.Context) {
	faqs, err := h.knowledge.ListFaqs(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	if faqs == nil {
		faqs = []models.Faq{}
	}
	c.JSON(http.StatusOK, faqs)
}

func (h *KnowledgeHandler) UpdateFaq(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var faq models.Faq
	if err := c.ShouldBindJSON(&faq); err != nil {
		c.Error(errors.NewBadRequestError(errors.CodeValidationError, "Invalid request body"))
		return
	}
	faq.ID = id
	if err := h.knowledge.UpdateFaq(c.Request.Context(), &faq); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, faq)
}

func (h *KnowledgeHandler) DeleteFaq(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.knowledge.DeleteFaq(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *KnowledgeHandler) SetFaqActive(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewBadRequestError(errors.CodeValidationError, "Field 'active' is required"))
		return
	}
	if err := h.knowledge.SetFaqActive(c.Request.Context(), id, *req.Active); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
