package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-parley/internal/pkg/chat/application"
)

// UserStatusController handles the followed-user status update endpoint.
// The query consumes the caller's watermark, so it is a POST: calling it
// twice in a row yields an empty delta the second time.
type UserStatusController struct {
	Svc *application.Service
}

func NewUserStatusController(svc *application.Service) *UserStatusController {
	return &UserStatusController{Svc: svc}
}

// Handle returns a gin handler that reports where the followed user has
// been active since the caller last checked.
func (h *UserStatusController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		otherID, ok := pathID(c, "otherId")
		if !ok {
			return
		}

		titles, err := h.Svc.UsersStatusUpdate(userID, otherID)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"user_id":             userID,
			"interested_user_id":  otherID,
			"conversation_titles": titles,
		})
	}
}
