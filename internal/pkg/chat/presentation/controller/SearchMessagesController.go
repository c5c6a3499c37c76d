package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-parley/internal/pkg/chat/application"
	chat "go-parley/internal/pkg/chat/domain"
)

// SearchMessagesController handles the cross-conversation message search
// endpoint.
type SearchMessagesController struct {
	Svc *application.Service
}

func NewSearchMessagesController(svc *application.Service) *SearchMessagesController {
	return &SearchMessagesController{Svc: svc}
}

// Handle returns a gin handler that searches messages across every
// conversation, by content prefix (ignoring case) or by a since/until
// window. At least one filter is required.
func (h *SearchMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		start, end, windowed, ok := timeWindow(c)
		if !ok {
			return
		}
		prefix := c.Query("prefix")
		if prefix == "" && !windowed {
			c.JSON(http.StatusBadRequest, gin.H{"error": "prefix or since/until is required"})
			return
		}

		var msgs []*chat.Message
		if prefix != "" {
			msgs = h.Svc.SearchMessages(prefix)
			if windowed {
				kept := msgs[:0]
				for _, m := range msgs {
					if !m.CreatedAt.Before(start) && m.CreatedAt.Before(end) {
						kept = append(kept, m)
					}
				}
				msgs = kept
			}
		} else {
			msgs = h.Svc.ListMessagesCreatedBetween(start, end)
		}

		out := make([]gin.H, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, messageJSON(m))
		}
		c.JSON(http.StatusOK, gin.H{"messages": out})
	}
}
