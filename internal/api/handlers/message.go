package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"chat-relay/internal/auth"
	"chat-relay/internal/models"
	"chat-relay/internal/service"
	"chat-relay/internal/store"
	"chat-relay/pkg/response"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// SendMessage godoc
// @Summary Send a chat message
// @Description Authenticate from init_data, persist the message through the store, and fan it out to every connected user
// @Tags messages
// @Accept json
// @Produce json
// @Param request body models.SendMessageRequest true "Message to send"
// @Success 200 {object} models.SendMessageResponse "Persisted message"
// @Failure 400 {object} models.ErrorResponse "Empty or oversized text"
// @Failure 401 {object} models.ErrorResponse "Invalid init_data"
// @Failure 500 {object} models.ErrorResponse "Store failure"
// @Router /api/send_message [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	message, err := h.chatService.SendMessage(c.Request.Context(), req.InitData, req.Text, req.ReplyToID)
	switch {
	case errors.Is(err, auth.ErrInvalidInitData):
		response.Error(c, http.StatusUnauthorized, "Invalid init_data", "")
	case errors.Is(err, service.ErrInvalidText):
		response.Error(c, http.StatusBadRequest, "Invalid message", "")
	case errors.Is(err, store.ErrUnavailable):
		response.Error(c, http.StatusInternalServerError, "Failed to save message", "")
	case err != nil:
		response.Error(c, http.StatusInternalServerError, "Failed to save message", err.Error())
	default:
		c.JSON(http.StatusOK, models.SendMessageResponse{Success: true, Message: message})
	}
}

// GetMessages godoc
// @Summary List chat messages
// @Description Paginated message history from the store; degrades to an empty page when the store is unavailable
// @Tags messages
// @Produce json
// @Param limit query int false "Page size" default(30)
// @Param before_id query int false "Cursor: only messages older than this id"
// @Success 200 {object} models.MessagesPage "Messages page"
// @Router /api/messages [get]
func (h *ChatHandler) GetMessages(c *gin.Context) {
	limit := 0
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			limit = parsed
		}
	}
	var beforeID int64
	if b := c.Query("before_id"); b != "" {
		if parsed, err := strconv.ParseInt(b, 10, 64); err == nil {
			beforeID = parsed
		}
	}

	c.JSON(http.StatusOK, h.chatService.Messages(c.Request.Context(), limit, beforeID))
}
