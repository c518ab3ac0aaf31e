package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/harborview-hospitality/service-reservation/internal/application"
	"github.com/harborview-hospitality/service-reservation/internal/platform/auth"
	"github.com/harborview-hospitality/service-reservation/internal/platform/middleware"
	"github.com/harborview-hospitality/service-reservation/internal/platform/response"
)

// MessageHandler handles HTTP requests for the guest-support inbox.
type MessageHandler struct {
	service *application.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(service *application.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// RegisterRoutes registers all message routes on the given router group.
// Sending a message is public; the inbox itself is staff-facing.
func (h *MessageHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	messages := r.Group("/api/v1/messages")
	{
		messages.POST("", h.SendMessage)
	}

	admin := r.Group("/api/v1/messages")
	admin.Use(middleware.Auth(jwtManager))
	{
		admin.GET("", h.ListMessages)
		admin.GET("/unread-count", h.CountUnread)
		admin.GET("/:id", h.GetMessage)
		admin.POST("/:id/respond", h.RespondToMessage)
		admin.PATCH("/:id/read", h.MarkRead)
		admin.PATCH("/:id/unread", h.MarkUnread)
	}
}

// SendMessage handles POST /api/v1/messages.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req application.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SendMessage(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListMessages handles GET /api/v1/messages. A status query filters by
// workflow status.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	if status := c.Query("status"); status != "" {
		result, err := h.service.ListMessagesByStatus(c.Request.Context(), status)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, result)
		return
	}

	result, err := h.service.ListMessages(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CountUnread handles GET /api/v1/messages/unread-count.
func (h *MessageHandler) CountUnread(c *gin.Context) {
	count, err := h.service.CountUnread(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"unread": count})
}

// GetMessage handles GET /api/v1/messages/:id. Fetching a message marks it read.
func (h *MessageHandler) GetMessage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.service.GetMessage(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RespondToMessage handles POST /api/v1/messages/:id/respond.
func (h *MessageHandler) RespondToMessage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req application.RespondMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	respondedBy, _ := middleware.GetUsername(c)
	result, err := h.service.RespondToMessage(c.Request.Context(), id, respondedBy, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// MarkRead handles PATCH /api/v1/messages/:id/read.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.service.MarkMessageRead(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// MarkUnread handles PATCH /api/v1/messages/:id/unread.
func (h *MessageHandler) MarkUnread(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.service.MarkMessageUnread(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
