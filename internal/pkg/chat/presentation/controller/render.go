package controller

import (
	"github.com/gin-gonic/gin"

	chat "go-parley/internal/pkg/chat/domain"
)

func userJSON(u *chat.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"created_at": u.CreatedAt,
	}
}

func conversationJSON(c *chat.Conversation) gin.H {
	return gin.H{
		"id":                   c.ID,
		"owner_id":             c.Owner,
		"title":                c.Title,
		"created_at":           c.CreatedAt,
		"default_access_level": c.DefaultLevel,
	}
}

func messageJSON(m *chat.Message) gin.H {
	return gin.H{
		"id":              m.ID,
		"conversation_id": m.ConversationID,
		"author_id":       m.AuthorID,
		"created_at":      m.CreatedAt,
		"content":         m.Content,
		"likes":           m.Likes,
	}
}
