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

const (
	usersCacheKey = "parley:users"
	listCacheTTL  = 5 * time.Second
)

// ListUsersController handles the user-listing endpoint, serving from the
// cache when a fresh copy is available.
type ListUsersController struct {
	Svc   *application.Service
	Cache cacheport.Cache // optional
}

func NewListUsersController(svc *application.Service, cache cacheport.Cache) *ListUsersController {
	return &ListUsersController{Svc: svc, Cache: cache}
}

// Handle returns a gin handler that lists users by creation time
// ascending. Optional query parameters narrow the result: name (exact
// lookup, ignoring case), prefix, and a since/until window. Filtered
// requests skip the cache.
func (h *ListUsersController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if name := c.Query("name"); name != "" {
			u, ok := h.Svc.FindUser(name)
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"users": []gin.H{userJSON(u)}})
			return
		}
		if prefix := c.Query("prefix"); prefix != "" {
			users := h.Svc.SearchUsers(prefix)
			out := make([]gin.H, 0, len(users))
			for _, u := range users {
				out = append(out, userJSON(u))
			}
			c.JSON(http.StatusOK, gin.H{"users": out})
			return
		}
		if start, end, windowed, ok := timeWindow(c); !ok {
			return
		} else if windowed {
			users := h.Svc.ListUsersBetween(start, end)
			out := make([]gin.H, 0, len(users))
			for _, u := range users {
				out = append(out, userJSON(u))
			}
			c.JSON(http.StatusOK, gin.H{"users": out})
			return
		}

		if h.Cache != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
			cached, err := h.Cache.Get(ctx, usersCacheKey)
			cancel()
			if err == nil {
				c.Data(http.StatusOK, "application/json", []byte(cached))
				return
			}
		}

		users := h.Svc.ListUsers()
		out := make([]gin.H, 0, len(users))
		for _, u := range users {
			out = append(out, userJSON(u))
		}
		body := gin.H{"users": out}

		if h.Cache != nil {
			if raw, err := json.Marshal(body); err == nil {
				ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
				_ = h.Cache.Set(ctx, usersCacheKey, string(raw), listCacheTTL)
				cancel()
			}
		}

		c.JSON(http.StatusOK, body)
	}
}
