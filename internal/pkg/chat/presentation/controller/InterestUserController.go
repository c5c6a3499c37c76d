package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-parley/internal/pkg/chat/application"
)

// InterestUserController handles the follow/unfollow-user endpoints.
type InterestUserController struct {
	Svc *application.Service
}

func NewInterestUserController(svc *application.Service) *InterestUserController {
	return &InterestUserController{Svc: svc}
}

// Add returns a gin handler that subscribes userId to otherId's activity.
func (h *InterestUserController) Add() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		otherID, ok := pathID(c, "otherId")
		if !ok {
			return
		}

		if err := h.Svc.AddInterestedUser(userID, otherID); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "interested_user_id": otherID, "interested": true})
	}
}

// Remove returns a gin handler that unsubscribes userId from otherId.
func (h *InterestUserController) Remove() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		otherID, ok := pathID(c, "otherId")
		if !ok {
			return
		}

		if err := h.Svc.RemoveInterestedUser(userID, otherID); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "interested_user_id": otherID, "interested": false})
	}
}
