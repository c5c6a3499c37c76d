package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cacheport "go-parley/internal/infrastructure/cache/port"
	"go-parley/internal/pkg/chat/application"
	chat "go-parley/internal/pkg/chat/domain"
)

// CreateConversationController handles the start-conversation endpoint.
type CreateConversationController struct {
	Svc   *application.Service
	Cache cacheport.Cache // optional; invalidates the cached conversation list
}

func NewCreateConversationController(svc *application.Service, cache cacheport.Cache) *CreateConversationController {
	return &CreateConversationController{Svc: svc, Cache: cache}
}

type createConversationRequest struct {
	Title              string    `json:"title" binding:"required"`
	CreatorID          uuid.UUID `json:"creator_id" binding:"required"`
	DefaultAccessLevel *string   `json:"default_access_level"`
}

// Handle returns a gin handler that starts a conversation. The default
// access level for first-time joiners is member unless the request says
// otherwise.
func (h *CreateConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		level := chat.AccessMember
		if req.DefaultAccessLevel != nil {
			parsed, err := chat.ParseAccessLevel(*req.DefaultAccessLevel)
			if err != nil {
				respondErr(c, err)
				return
			}
			level = parsed
		}

		conv, err := h.Svc.CreateConversation(req.Title, req.CreatorID, level)
		if err != nil {
			respondErr(c, err)
			return
		}

		if h.Cache != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
			_, _ = h.Cache.Del(ctx, conversationsCacheKey)
			cancel()
		}

		c.JSON(http.StatusCreated, conversationJSON(conv))
	}
}
