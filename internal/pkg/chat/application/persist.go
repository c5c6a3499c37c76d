package application

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/google/uuid"

	chat "go-parley/internal/pkg/chat/domain"
	"go-parley/internal/pkg/chat/persistence/snapshot"
	"go-parley/internal/pkg/chat/store"
)

// Snapshot takes a consistent point-in-time copy of the store under the
// read lock. The caller hands the copy to a snapshot.Store outside any
// critical section.
func (s *Service) Snapshot() *snapshot.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &snapshot.Snapshot{SavedAt: s.now()}

	for _, u := range s.store.Users() {
		snap.Users = append(snap.Users, snapshot.UserRecord{
			ID:                      u.ID,
			Name:                    u.Name,
			CreatedAt:               u.CreatedAt,
			InterestedUsers:         sortedIDs(u.InterestedUsers),
			InterestedConversations: sortedIDs(u.InterestedConversations),
			LastUserCheck:           u.LastUserCheck,
			LastConversationCheck:   u.LastConversationCheck,
		})
	}

	for _, c := range s.store.Conversations() {
		membership := make(map[uuid.UUID]chat.AccessLevel, len(c.Membership))
		for id, level := range c.Membership {
			membership[id] = level
		}
		snap.Conversations = append(snap.Conversations, snapshot.ConversationRecord{
			ID:           c.ID,
			Owner:        c.Owner,
			CreatedAt:    c.CreatedAt,
			Title:        c.Title,
			DefaultLevel: c.DefaultLevel,
			Membership:   membership,
		})
	}

	for _, m := range s.store.Messages() {
		snap.Messages = append(snap.Messages, snapshot.MessageRecord{
			ID:             m.ID,
			ConversationID: m.ConversationID,
			AuthorID:       m.AuthorID,
			CreatedAt:      m.CreatedAt,
			Content:        m.Content,
			Likes:          m.Likes,
		})
	}

	return snap
}

// Restore rebuilds a Service from a snapshot. Records are inserted in the
// order they were saved (creation time ascending), which reproduces the
// original ordering under every index.
func Restore(snap *snapshot.Snapshot, opts ...Option) (*Service, error) {
	st := store.New()

	for _, rec := range snap.Users {
		u := chat.NewUser(rec.ID, rec.Name, rec.CreatedAt)
		for _, id := range rec.InterestedUsers {
			u.FollowUser(id)
		}
		for _, id := range rec.InterestedConversations {
			u.FollowConversation(id)
		}
		if !rec.LastUserCheck.IsZero() {
			u.LastUserCheck = rec.LastUserCheck
		}
		if !rec.LastConversationCheck.IsZero() {
			u.LastConversationCheck = rec.LastConversationCheck
		}
		if err := st.AddUser(u); err != nil {
			return nil, fmt.Errorf("restore user %q: %w", rec.Name, err)
		}
	}

	for _, rec := range snap.Conversations {
		c, err := chat.NewConversation(rec.ID, rec.Owner, rec.Title, rec.DefaultLevel, rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("restore conversation %q: %w", rec.Title, err)
		}
		for id, level := range rec.Membership {
			c.Membership[id] = level
		}
		// The creator entry always wins over whatever the record carried.
		c.Membership[c.Owner] = chat.AccessCreator
		if err := st.AddConversation(c); err != nil {
			return nil, fmt.Errorf("restore conversation %q: %w", rec.Title, err)
		}
	}

	for _, rec := range snap.Messages {
		if _, ok := st.ConversationByID(rec.ConversationID); !ok {
			return nil, fmt.Errorf("restore message %s: %w: conversation %s",
				rec.ID, chat.ErrNotFound, rec.ConversationID)
		}
		m := &chat.Message{
			ID:             rec.ID,
			ConversationID: rec.ConversationID,
			AuthorID:       rec.AuthorID,
			CreatedAt:      rec.CreatedAt,
			Content:        rec.Content,
			Likes:          rec.Likes,
		}
		if err := st.AddMessage(m); err != nil {
			return nil, fmt.Errorf("restore message %s: %w", rec.ID, err)
		}
	}

	return NewService(st, opts...), nil
}

func sortedIDs(set map[uuid.UUID]struct{}) []uuid.UUID {
	if len(set) == 0 {
		return nil
	}
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i][:], out[j][:]) < 0 })
	return out
}
