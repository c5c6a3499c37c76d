package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	cacheport "go-parley/internal/infrastructure/cache/port"
	"go-parley/internal/pkg/chat/application"
)

// CreateUserController handles the sign-up endpoint only (one controller
// per endpoint).
type CreateUserController struct {
	Svc   *application.Service
	Cache cacheport.Cache // optional; invalidates the cached user list
}

func NewCreateUserController(svc *application.Service, cache cacheport.Cache) *CreateUserController {
	return &CreateUserController{Svc: svc, Cache: cache}
}

type createUserRequest struct {
	Name string `json:"name" binding:"required"`
}

// Handle returns a gin handler that signs up a new user.
func (h *CreateUserController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		u, err := h.Svc.CreateUser(req.Name)
		if err != nil {
			respondErr(c, err)
			return
		}

		if h.Cache != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
			_, _ = h.Cache.Del(ctx, usersCacheKey)
			cancel()
		}

		c.JSON(http.StatusCreated, userJSON(u))
	}
}
