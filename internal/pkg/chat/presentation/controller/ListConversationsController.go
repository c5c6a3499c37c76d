package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	cacheport "go-parley/internal/infrastructure/cache/port"
	"go-parley/internal/pkg/chat/application"
)

const conversationsCacheKey = "parley:conversations"

// ListConversationsController handles the conversation-listing endpoint,
// serving from the cache when a fresh copy is available.
type ListConversationsController struct {
	Svc   *application.Service
	Cache cacheport.Cache // optional
}

func NewListConversationsController(svc *application.Service, cache cacheport.Cache) *ListConversationsController {
	return &ListConversationsController{Svc: svc, Cache: cache}
}

// Handle returns a gin handler that lists conversations by creation time
// ascending. Optional query parameters narrow the result: title (exact
// lookup, ignoring case), prefix, and a since/until window. Filtered
// requests skip the cache.
func (h *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if title := c.Query("title"); title != "" {
			conv, ok := h.Svc.FindConversation(title)
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"conversations": []gin.H{conversationJSON(conv)}})
			return
		}
		if prefix := c.Query("prefix"); prefix != "" {
			convos := h.Svc.SearchConversations(prefix)
			out := make([]gin.H, 0, len(convos))
			for _, conv := range convos {
				out = append(out, conversationJSON(conv))
			}
			c.JSON(http.StatusOK, gin.H{"conversations": out})
			return
		}
		if start, end, windowed, ok := timeWindow(c); !ok {
			return
		} else if windowed {
			convos := h.Svc.ListConversationsBetween(start, end)
			out := make([]gin.H, 0, len(convos))
			for _, conv := range convos {
				out = append(out, conversationJSON(conv))
			}
			c.JSON(http.StatusOK, gin.H{"conversations": out})
			return
		}

		if h.Cache != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
			cached, err := h.Cache.Get(ctx, conversationsCacheKey)
			cancel()
			if err == nil {
				c.Data(http.StatusOK, "application/json", []byte(cached))
				return
			}
		}

		convos := h.Svc.ListConversations()
		out := make([]gin.H, 0, len(convos))
		for _, conv := range convos {
			out = append(out, conversationJSON(conv))
		}
		body := gin.H{"conversations": out}

		if h.Cache != nil {
			if raw, err := json.Marshal(body); err == nil {
				ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
				_ = h.Cache.Set(ctx, conversationsCacheKey, string(raw), listCacheTTL)
				cancel()
			}
		}

		c.JSON(http.StatusOK, body)
	}
}
