package chat

import "github.com/google/uuid"

// NewID returns a process-wide unique identifier for users, conversations
// and messages.
func NewID() uuid.UUID {
	return uuid.New()
}
