package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-parley/internal/pkg/chat/application"
)

// ConversationStatusController handles the followed-conversation status
// update endpoint. POST for the same reason as the user status: the call
// advances the caller's watermark.
type ConversationStatusController struct {
	Svc *application.Service
}

func NewConversationStatusController(svc *application.Service) *ConversationStatusController {
	return &ConversationStatusController{Svc: svc}
}

// Handle returns a gin handler that counts messages added to the
// conversation since the caller last checked.
func (h *ConversationStatusController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		conversationID, ok := pathID(c, "conversationId")
		if !ok {
			return
		}

		count, err := h.Svc.ConversationStatusUpdate(userID, conversationID)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"user_id":         userID,
			"conversation_id": conversationID,
			"new_messages":    count,
		})
	}
}
