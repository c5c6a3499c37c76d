package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-parley/internal/pkg/chat/application"
	chat "go-parley/internal/pkg/chat/domain"
)

// ListMessagesController handles the message-listing endpoint.
type ListMessagesController struct {
	Svc *application.Service
}

func NewListMessagesController(svc *application.Service) *ListMessagesController {
	return &ListMessagesController{Svc: svc}
}

// Handle returns a gin handler that lists a conversation's messages by
// creation time ascending. Optional since/until query parameters limit
// the listing to a half-open window.
func (h *ListMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, ok := pathID(c, "conversationId")
		if !ok {
			return
		}

		start, end, windowed, ok := timeWindow(c)
		if !ok {
			return
		}

		var (
			msgs []*chat.Message
			err  error
		)
		if windowed {
			msgs, err = h.Svc.ListMessagesBetween(conversationID, start, end)
		} else {
			msgs, err = h.Svc.ListMessages(conversationID)
		}
		if err != nil {
			respondErr(c, err)
			return
		}

		out := make([]gin.H, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, messageJSON(m))
		}
		c.JSON(http.StatusOK, gin.H{"messages": out})
	}
}
