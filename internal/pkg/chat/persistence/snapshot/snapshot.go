// Package snapshot defines the persistence contract for the in-memory
// store: a whole point-in-time copy is written and read back in one piece,
// no incremental persistence. Records are plain data decoupled from the
// domain types so adapters stay free of aggregate behavior.
package snapshot

import (
	"context"
	"time"

	"github.com/google/uuid"

	chat "go-parley/internal/pkg/chat/domain"
)

// UserRecord carries a user plus its follow state and check watermarks.
type UserRecord struct {
	ID                      uuid.UUID   `json:"id"`
	Name                    string      `json:"name"`
	CreatedAt               time.Time   `json:"created_at"`
	InterestedUsers         []uuid.UUID `json:"interested_users,omitempty"`
	InterestedConversations []uuid.UUID `json:"interested_conversations,omitempty"`
	LastUserCheck           time.Time   `json:"last_user_check"`
	LastConversationCheck   time.Time   `json:"last_conversation_check"`
}

// ConversationRecord carries a conversation header and its membership map.
type ConversationRecord struct {
	ID           uuid.UUID                     `json:"id"`
	Owner        uuid.UUID                     `json:"owner"`
	CreatedAt    time.Time                     `json:"created_at"`
	Title        string                        `json:"title"`
	DefaultLevel chat.AccessLevel              `json:"default_access_level"`
	Membership   map[uuid.UUID]chat.AccessLevel `json:"membership"`
}

// MessageRecord carries one message.
type MessageRecord struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	AuthorID       uuid.UUID `json:"author_id"`
	CreatedAt      time.Time `json:"created_at"`
	Content        string    `json:"content"`
	Likes          int       `json:"likes"`
}

// Snapshot is a consistent copy of the whole store. Entity slices are
// ordered by creation time ascending so reloading reproduces index order.
type Snapshot struct {
	SavedAt       time.Time            `json:"saved_at"`
	Users         []UserRecord         `json:"users"`
	Conversations []ConversationRecord `json:"conversations"`
	Messages      []MessageRecord      `json:"messages"`
}

// Store persists snapshots. Implementations must tolerate Save being called
// repeatedly with the full state each time.
type Store interface {
	// Load reads the latest snapshot. A missing/empty backend yields an
	// empty snapshot, not an error.
	Load(ctx context.Context) (*Snapshot, error)

	// Save writes the snapshot, replacing whatever was persisted before.
	Save(ctx context.Context, snap *Snapshot) error
}
