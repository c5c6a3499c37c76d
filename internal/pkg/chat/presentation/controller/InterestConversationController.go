package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-parley/internal/pkg/chat/application"
)

// InterestConversationController handles the follow/unfollow-conversation
// endpoints.
type InterestConversationController struct {
	Svc *application.Service
}

func NewInterestConversationController(svc *application.Service) *InterestConversationController {
	return &InterestConversationController{Svc: svc}
}

// Add returns a gin handler that subscribes userId to the conversation.
func (h *InterestConversationController) Add() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		conversationID, ok := pathID(c, "conversationId")
		if !ok {
			return
		}

		if err := h.Svc.AddInterestedConversation(userID, conversationID); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "interested_conversation_id": conversationID, "interested": true})
	}
}

// Remove returns a gin handler that unsubscribes userId from the
// conversation.
func (h *InterestConversationController) Remove() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		conversationID, ok := pathID(c, "conversationId")
		if !ok {
			return
		}

		if err := h.Svc.RemoveInterestedConversation(userID, conversationID); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "interested_conversation_id": conversationID, "interested": false})
	}
}
