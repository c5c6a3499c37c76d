// Package store holds the authoritative set of users, conversations and
// messages. Every entity kind is reachable through three synchronized
// views: by id (exact), by creation time (range) and by text key
// (case-insensitive, prefix/range). Inserts update all three together;
// nothing is ever deleted.
package store

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	chat "go-parley/internal/pkg/chat/domain"
)

func compareID(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}

func compareTime(a, b time.Time) int {
	return a.Compare(b)
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// Store indexes all entities. It is not safe for concurrent use on its own;
// the application facade serializes access.
type Store struct {
	userByID   *index[uuid.UUID, *chat.User]
	userByTime *index[time.Time, *chat.User]
	userByName *index[string, *chat.User]

	convByID    *index[uuid.UUID, *chat.Conversation]
	convByTime  *index[time.Time, *chat.Conversation]
	convByTitle *index[string, *chat.Conversation]

	msgByID   *index[uuid.UUID, *chat.Message]
	msgByTime *index[time.Time, *chat.Message]
	msgByText *index[string, *chat.Message]
}

func New() *Store {
	return &Store{
		userByID:   newIndex[uuid.UUID, *chat.User](compareID),
		userByTime: newIndex[time.Time, *chat.User](compareTime),
		userByName: newIndex[string, *chat.User](compareFold),

		convByID:    newIndex[uuid.UUID, *chat.Conversation](compareID),
		convByTime:  newIndex[time.Time, *chat.Conversation](compareTime),
		convByTitle: newIndex[string, *chat.Conversation](compareFold),

		msgByID:   newIndex[uuid.UUID, *chat.Message](compareID),
		msgByTime: newIndex[time.Time, *chat.Message](compareTime),
		msgByText: newIndex[string, *chat.Message](compareFold),
	}
}

// AddUser inserts the user into all three user indices.
func (s *Store) AddUser(u *chat.User) error {
	if _, exists := s.userByID.first(u.ID); exists {
		return fmt.Errorf("%w: user %s", chat.ErrDuplicateID, u.ID)
	}
	s.userByID.insert(u.ID, u)
	s.userByTime.insert(u.CreatedAt, u)
	s.userByName.insert(u.Name, u)
	checkViews("user", s.userByID.len(), s.userByTime.len(), s.userByName.len())
	return nil
}

// AddConversation inserts the conversation into all three conversation
// indices.
func (s *Store) AddConversation(c *chat.Conversation) error {
	if _, exists := s.convByID.first(c.ID); exists {
		return fmt.Errorf("%w: conversation %s", chat.ErrDuplicateID, c.ID)
	}
	s.convByID.insert(c.ID, c)
	s.convByTime.insert(c.CreatedAt, c)
	s.convByTitle.insert(c.Title, c)
	checkViews("conversation", s.convByID.len(), s.convByTime.len(), s.convByTitle.len())
	return nil
}

// AddMessage inserts the message into all three message indices.
func (s *Store) AddMessage(m *chat.Message) error {
	if _, exists := s.msgByID.first(m.ID); exists {
		return fmt.Errorf("%w: message %s", chat.ErrDuplicateID, m.ID)
	}
	s.msgByID.insert(m.ID, m)
	s.msgByTime.insert(m.CreatedAt, m)
	s.msgByText.insert(m.Content, m)
	checkViews("message", s.msgByID.len(), s.msgByTime.len(), s.msgByText.len())
	return nil
}

// checkViews asserts the three views of one entity kind agree. A mismatch is
// a programming error in the store itself, not a recoverable condition.
func checkViews(kind string, byID, byTime, byText int) {
	if byID != byTime || byID != byText {
		panic(fmt.Sprintf("store: %s indices diverged (%d/%d/%d)", kind, byID, byTime, byText))
	}
}

func (s *Store) UserByID(id uuid.UUID) (*chat.User, bool) {
	return s.userByID.first(id)
}

// UserByName resolves a name case-insensitively. Among case variants the
// earliest-registered user wins.
func (s *Store) UserByName(name string) (*chat.User, bool) {
	return s.userByName.first(name)
}

// UserByExactName resolves a name case-sensitively. Sign-up uniqueness is
// case-sensitive, so case variants of the same name may coexist.
func (s *Store) UserByExactName(name string) (*chat.User, bool) {
	var found *chat.User
	s.userByName.ascend(name, func(k string, u *chat.User) bool {
		if compareFold(k, name) != 0 {
			return false
		}
		if k == name {
			found = u
			return false
		}
		return true
	})
	return found, found != nil
}

// Users returns all users ordered by creation time ascending.
func (s *Store) Users() []*chat.User {
	return s.userByTime.all()
}

// UsersBetween returns users created in [start, end).
func (s *Store) UsersBetween(start, end time.Time) []*chat.User {
	return s.userByTime.between(start, end)
}

// UsersByPrefix returns users whose name starts with prefix, ignoring case,
// in name order.
func (s *Store) UsersByPrefix(prefix string) []*chat.User {
	return scanPrefix(s.userByName, prefix)
}

func (s *Store) ConversationByID(id uuid.UUID) (*chat.Conversation, bool) {
	return s.convByID.first(id)
}

func (s *Store) ConversationByTitle(title string) (*chat.Conversation, bool) {
	return s.convByTitle.first(title)
}

// Conversations returns all conversations ordered by creation time
// ascending.
func (s *Store) Conversations() []*chat.Conversation {
	return s.convByTime.all()
}

// ConversationsBetween returns conversations created in [start, end).
func (s *Store) ConversationsBetween(start, end time.Time) []*chat.Conversation {
	return s.convByTime.between(start, end)
}

// ConversationsByPrefix returns conversations whose title starts with
// prefix, ignoring case, in title order.
func (s *Store) ConversationsByPrefix(prefix string) []*chat.Conversation {
	return scanPrefix(s.convByTitle, prefix)
}

func (s *Store) MessageByID(id uuid.UUID) (*chat.Message, bool) {
	return s.msgByID.first(id)
}

// Messages returns all messages ordered by creation time ascending.
func (s *Store) Messages() []*chat.Message {
	return s.msgByTime.all()
}

// MessagesBetween returns messages created in [start, end).
func (s *Store) MessagesBetween(start, end time.Time) []*chat.Message {
	return s.msgByTime.between(start, end)
}

// MessagesByPrefix returns messages whose content starts with prefix,
// ignoring case, in content order.
func (s *Store) MessagesByPrefix(prefix string) []*chat.Message {
	return scanPrefix(s.msgByText, prefix)
}

// MessagesIn returns the conversation's messages ordered by creation time
// ascending.
func (s *Store) MessagesIn(conversation uuid.UUID) []*chat.Message {
	var out []*chat.Message
	for _, m := range s.msgByTime.all() {
		if m.ConversationID == conversation {
			out = append(out, m)
		}
	}
	return out
}

// MessagesInBetween returns the conversation's messages created in
// [start, end).
func (s *Store) MessagesInBetween(conversation uuid.UUID, start, end time.Time) []*chat.Message {
	var out []*chat.Message
	for _, m := range s.msgByTime.between(start, end) {
		if m.ConversationID == conversation {
			out = append(out, m)
		}
	}
	return out
}

// LastMessage returns the newest message in the conversation.
func (s *Store) LastMessage(conversation uuid.UUID) (*chat.Message, bool) {
	msgs := s.msgByTime.all()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].ConversationID == conversation {
			return msgs[i], true
		}
	}
	return nil, false
}

// MessagesByAuthors returns all messages whose author is in the given set,
// ordered by creation time ascending.
func (s *Store) MessagesByAuthors(authors map[uuid.UUID]struct{}) []*chat.Message {
	var out []*chat.Message
	for _, m := range s.msgByTime.all() {
		if _, ok := authors[m.AuthorID]; ok {
			out = append(out, m)
		}
	}
	return out
}

func scanPrefix[V any](ix *index[string, V], prefix string) []V {
	folded := strings.ToLower(prefix)
	var out []V
	ix.ascend(prefix, func(k string, v V) bool {
		if !strings.HasPrefix(strings.ToLower(k), folded) {
			return false
		}
		out = append(out, v)
		return true
	})
	return out
}
