package response

import (
	"chat-relay/internal/models"

	"github.com/gin-gonic/gin"
)

// Error writes the standard error payload and aborts the request.
func Error(c *gin.Context, status int, message string, details string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Code:    status,
		Message: message,
		Details: details,
	})
}
