package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-parley/internal/infrastructure/realtime"
	"go-parley/internal/pkg/chat/application"
)

// PostMessageController handles the add-message endpoint and fans the new
// message out to websocket sessions joined to the conversation.
type PostMessageController struct {
	Svc      *application.Service
	Realtime *realtime.Router // optional
}

func NewPostMessageController(svc *application.Service, rt *realtime.Router) *PostMessageController {
	return &PostMessageController{Svc: svc, Realtime: rt}
}

type postMessageRequest struct {
	AuthorID uuid.UUID `json:"author_id" binding:"required"`
	Content  string    `json:"content" binding:"required"`
}

// Handle returns a gin handler that appends a message to a conversation.
func (h *PostMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, ok := pathID(c, "conversationId")
		if !ok {
			return
		}

		var req postMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		msg, err := h.Svc.PostMessage(conversationID, req.AuthorID, req.Content)
		if err != nil {
			respondErr(c, err)
			return
		}

		if h.Realtime != nil {
			event := gin.H{"type": "message", "message": messageJSON(msg)}
			if payload, err := json.Marshal(event); err == nil {
				h.Realtime.Broadcast(conversationID, payload, msg.AuthorID)
			}
		}

		c.JSON(http.StatusCreated, messageJSON(msg))
	}
}
