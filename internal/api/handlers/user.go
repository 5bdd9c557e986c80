package handlers

import (
	"net/http"

	"chat-relay/internal/models"
	"chat-relay/internal/service"
	"chat-relay/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	chatService *service.ChatService
}

func NewUserHandler(chatService *service.ChatService) *UserHandler {
	return &UserHandler{chatService: chatService}
}

// GetProfile godoc
// @Summary Get a user profile
// @Description Look the profile up in the message store
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.ProfileRequest true "User to look up"
// @Success 200 {object} object "Profile as returned by the store"
// @Failure 400 {object} models.ErrorResponse "Missing user_id"
// @Failure 404 {object} models.ErrorResponse "Store returned nothing"
// @Router /api/user/profile [post]
func (h *UserHandler) GetProfile(c *gin.Context) {
	var req models.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == 0 {
		response.Error(c, http.StatusBadRequest, "No user_id", "")
		return
	}

	profile, err := h.chatService.Profile(c.Request.Context(), req.UserID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "User not found", "")
		return
	}

	// The profile is store-owned; return it verbatim.
	c.Data(http.StatusOK, "application/json", profile.Raw)
}
