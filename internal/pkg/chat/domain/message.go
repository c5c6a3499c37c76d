package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is an immutable log entry in a conversation. Only the like
// counter changes after creation, and it only grows.
type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	AuthorID       uuid.UUID
	CreatedAt      time.Time
	Content        string
	Likes          int
}

func NewMessage(id, conversationID, authorID uuid.UUID, content string, createdAt time.Time) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("message content is required")
	}
	return &Message{
		ID:             id,
		ConversationID: conversationID,
		AuthorID:       authorID,
		CreatedAt:      createdAt,
		Content:        content,
	}, nil
}

// Clone returns a copy of the message. Message has no reference fields, so
// a shallow copy detaches it fully.
func (m *Message) Clone() *Message {
	cp := *m
	return &cp
}

// Like bumps the like counter.
func (m *Message) Like() {
	m.Likes++
}
