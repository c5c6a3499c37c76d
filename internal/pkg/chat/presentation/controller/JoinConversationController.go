package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-parley/internal/pkg/chat/application"
)

// JoinConversationController handles the join endpoint.
type JoinConversationController struct {
	Svc *application.Service
}

func NewJoinConversationController(svc *application.Service) *JoinConversationController {
	return &JoinConversationController{Svc: svc}
}

type joinConversationRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// Handle returns a gin handler that admits a user to a conversation and
// reports the access level they hold, so the client can route to the right
// view.
func (h *JoinConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, ok := pathID(c, "conversationId")
		if !ok {
			return
		}

		var req joinConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		level, err := h.Svc.JoinConversation(conversationID, req.UserID)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"conversation_id": conversationID,
			"user_id":         req.UserID,
			"access_level":    level,
		})
	}
}
