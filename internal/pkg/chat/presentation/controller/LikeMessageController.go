package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-parley/internal/pkg/chat/application"
)

// LikeMessageController handles the like endpoint: a like always lands on
// the conversation's most recent message.
type LikeMessageController struct {
	Svc *application.Service
}

func NewLikeMessageController(svc *application.Service) *LikeMessageController {
	return &LikeMessageController{Svc: svc}
}

type likeMessageRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// Handle returns a gin handler that likes the newest message.
func (h *LikeMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, ok := pathID(c, "conversationId")
		if !ok {
			return
		}

		var req likeMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		msg, err := h.Svc.LikeLastMessage(conversationID, req.UserID)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, messageJSON(msg))
	}
}
