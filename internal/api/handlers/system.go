package handlers

import (
	"net/http"
	"time"

	"chat-relay/internal/models"
	"chat-relay/internal/service"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct {
	chatService *service.ChatService
}

func NewSystemHandler(chatService *service.ChatService) *SystemHandler {
	return &SystemHandler{chatService: chatService}
}

// Health godoc
// @Summary Liveness probe
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:      "healthy",
		OnlineUsers: h.chatService.OnlineCount(),
		Timestamp:   time.Now().Format(time.RFC3339),
	})
}

// OnlineCount godoc
// @Summary Current online user count
// @Produce json
// @Success 200 {object} models.OnlineCountResponse
// @Router /api/online_count [get]
func (h *SystemHandler) OnlineCount(c *gin.Context) {
	c.JSON(http.StatusOK, models.OnlineCountResponse{Count: h.chatService.OnlineCount()})
}
