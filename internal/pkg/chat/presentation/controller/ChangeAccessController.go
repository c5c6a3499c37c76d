package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-parley/internal/pkg/chat/application"
	chat "go-parley/internal/pkg/chat/domain"
)

// ChangeAccessController handles the access-level administration endpoint.
type ChangeAccessController struct {
	Svc *application.Service
}

func NewChangeAccessController(svc *application.Service) *ChangeAccessController {
	return &ChangeAccessController{Svc: svc}
}

type changeAccessRequest struct {
	ActingUserID uuid.UUID `json:"acting_user_id" binding:"required"`
	TargetUserID uuid.UUID `json:"target_user_id" binding:"required"`
	Level        string    `json:"level" binding:"required"`
}

// Handle returns a gin handler that changes a member's access level.
func (h *ChangeAccessController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, ok := pathID(c, "conversationId")
		if !ok {
			return
		}

		var req changeAccessRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		level, err := chat.ParseAccessLevel(req.Level)
		if err != nil {
			respondErr(c, err)
			return
		}

		if err := h.Svc.ChangeAccessLevel(conversationID, req.ActingUserID, req.TargetUserID, level); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"conversation_id": conversationID,
			"target_user_id":  req.TargetUserID,
			"access_level":    level,
		})
	}
}
