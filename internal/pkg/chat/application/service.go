// Package application exposes the conversational core to the command
// layer: user/conversation/message creation, membership gating, interest
// tracking and status updates. Every operation runs to completion under a
// single writer lock; read-only queries share a read lock.
package application

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	chat "go-parley/internal/pkg/chat/domain"
	"go-parley/internal/pkg/chat/store"
)

// Service owns the entity store and serializes all access to it. It holds
// no I/O; persistence happens outside the lock on a point-in-time copy.
// Entities returned from any method are detached copies: callers read and
// serialize them without holding the lock, so they must never alias the
// authoritative store objects.
type Service struct {
	mu    sync.RWMutex
	store *store.Store
	now   func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source. Tests use this to make creation
// times and status windows deterministic.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store: st,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateUser signs up a new user. Names are unique (case-sensitive).
func (s *Service) CreateUser(name string) (*chat.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("user name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.store.UserByExactName(name); taken {
		return nil, fmt.Errorf("%w: %q", chat.ErrDuplicateName, name)
	}
	u := chat.NewUser(chat.NewID(), name, s.now())
	if err := s.store.AddUser(u); err != nil {
		return nil, err
	}
	return u.Clone(), nil
}

// CreateConversation starts a conversation owned by creator. The creator's
// membership entry is set to creator level at construction and never
// changes.
func (s *Service) CreateConversation(title string, creator uuid.UUID, defaultLevel chat.AccessLevel) (*chat.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.UserByID(creator); !ok {
		return nil, fmt.Errorf("%w: user %s", chat.ErrNotFound, creator)
	}
	c, err := chat.NewConversation(chat.NewID(), creator, title, defaultLevel, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.AddConversation(c); err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

// JoinConversation admits the user and returns the level they hold, so the
// caller can route to the right capability surface.
func (s *Service) JoinConversation(conversation, user uuid.UUID) (chat.AccessLevel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, u, err := s.conversationAndUser(conversation, user)
	if err != nil {
		return 0, err
	}
	return c.Join(u.ID)
}

// PostMessage appends a message to the conversation. Mute and blocked
// members (and non-members) cannot post.
func (s *Service) PostMessage(conversation, author uuid.UUID, content string) (*chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, u, err := s.conversationAndUser(conversation, author)
	if err != nil {
		return nil, err
	}
	if !c.CanPost(u.ID) {
		return nil, fmt.Errorf("%w: user %s cannot post in %q", chat.ErrInsufficientPrivilege, u.Name, c.Title)
	}
	m, err := chat.NewMessage(chat.NewID(), c.ID, u.ID, content, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.AddMessage(m); err != nil {
		return nil, err
	}
	return m.Clone(), nil
}

// ChangeAccessLevel updates the target's membership entry subject to the
// transition rules on the conversation aggregate.
func (s *Service) ChangeAccessLevel(conversation, actor, target uuid.UUID, newLevel chat.AccessLevel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, _, err := s.conversationAndUser(conversation, actor)
	if err != nil {
		return err
	}
	if _, ok := s.store.UserByID(target); !ok {
		return fmt.Errorf("%w: user %s", chat.ErrNotFound, target)
	}
	return c.ChangeLevel(actor, target, newLevel)
}

// LikeLastMessage increments the like counter on the newest message in the
// conversation. Liking requires the same standing as posting.
func (s *Service) LikeLastMessage(conversation, user uuid.UUID) (*chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, u, err := s.conversationAndUser(conversation, user)
	if err != nil {
		return nil, err
	}
	if !c.CanPost(u.ID) {
		return nil, fmt.Errorf("%w: user %s cannot like in %q", chat.ErrInsufficientPrivilege, u.Name, c.Title)
	}
	last, ok := s.store.LastMessage(c.ID)
	if !ok {
		return nil, fmt.Errorf("%w: conversation %q has no messages", chat.ErrNotFound, c.Title)
	}
	last.Like()
	return last.Clone(), nil
}

// ListUsers returns all users ordered by creation time ascending.
func (s *Service) ListUsers() []*chat.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUsers(s.store.Users())
}

// ListConversations returns all conversations ordered by creation time
// ascending.
func (s *Service) ListConversations() []*chat.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneConversations(s.store.Conversations())
}

// ListMessages returns the conversation's messages ordered by creation time
// ascending.
func (s *Service) ListMessages(conversation uuid.UUID) ([]*chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.store.ConversationByID(conversation); !ok {
		return nil, fmt.Errorf("%w: conversation %s", chat.ErrNotFound, conversation)
	}
	return cloneMessages(s.store.MessagesIn(conversation)), nil
}

// FindUser looks a user up by name, ignoring case. When several names
// collide under case folding the earliest created one wins.
func (s *Service) FindUser(name string) (*chat.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.store.UserByName(name)
	if !ok {
		return nil, false
	}
	return u.Clone(), true
}

// FindConversation looks a conversation up by title, ignoring case.
func (s *Service) FindConversation(title string) (*chat.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.store.ConversationByTitle(title)
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// SearchUsers returns users whose name starts with prefix, ignoring case.
func (s *Service) SearchUsers(prefix string) []*chat.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUsers(s.store.UsersByPrefix(prefix))
}

// SearchConversations returns conversations whose title starts with
// prefix, ignoring case.
func (s *Service) SearchConversations(prefix string) []*chat.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneConversations(s.store.ConversationsByPrefix(prefix))
}

// SearchMessages returns messages whose content starts with prefix,
// ignoring case, across all conversations.
func (s *Service) SearchMessages(prefix string) []*chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMessages(s.store.MessagesByPrefix(prefix))
}

// ListUsersBetween returns users created in [start, end).
func (s *Service) ListUsersBetween(start, end time.Time) []*chat.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUsers(s.store.UsersBetween(start, end))
}

// ListConversationsBetween returns conversations created in [start, end).
func (s *Service) ListConversationsBetween(start, end time.Time) []*chat.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneConversations(s.store.ConversationsBetween(start, end))
}

// ListMessagesCreatedBetween returns messages created in [start, end)
// across all conversations.
func (s *Service) ListMessagesCreatedBetween(start, end time.Time) []*chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMessages(s.store.MessagesBetween(start, end))
}

// ListMessagesBetween returns the conversation's messages created in
// [start, end).
func (s *Service) ListMessagesBetween(conversation uuid.UUID, start, end time.Time) ([]*chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.store.ConversationByID(conversation); !ok {
		return nil, fmt.Errorf("%w: conversation %s", chat.ErrNotFound, conversation)
	}
	return cloneMessages(s.store.MessagesInBetween(conversation, start, end)), nil
}

// conversationAndUser resolves both ids or reports which one is unknown.
// Callers must hold the lock.
func (s *Service) conversationAndUser(conversation, user uuid.UUID) (*chat.Conversation, *chat.User, error) {
	c, ok := s.store.ConversationByID(conversation)
	if !ok {
		return nil, nil, fmt.Errorf("%w: conversation %s", chat.ErrNotFound, conversation)
	}
	u, ok := s.store.UserByID(user)
	if !ok {
		return nil, nil, fmt.Errorf("%w: user %s", chat.ErrNotFound, user)
	}
	return c, u, nil
}

// AddInterestedUser subscribes user to other's activity. Idempotent.
func (s *Service) AddInterestedUser(user, other uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.twoUsers(user, other)
	if err != nil {
		return err
	}
	u.FollowUser(other)
	return nil
}

// RemoveInterestedUser unsubscribes user from other's activity. Idempotent.
func (s *Service) RemoveInterestedUser(user, other uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.twoUsers(user, other)
	if err != nil {
		return err
	}
	u.UnfollowUser(other)
	return nil
}

// IsInterestedUser reports whether user follows other.
func (s *Service) IsInterestedUser(user, other uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.store.UserByID(user)
	if !ok {
		return false, fmt.Errorf("%w: user %s", chat.ErrNotFound, user)
	}
	return u.FollowsUser(other), nil
}

// AddInterestedConversation subscribes user to the conversation's activity.
// Idempotent.
func (s *Service) AddInterestedConversation(user, conversation uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, u, err := s.conversationAndUser(conversation, user)
	if err != nil {
		return err
	}
	u.FollowConversation(c.ID)
	return nil
}

// RemoveInterestedConversation unsubscribes user from the conversation's
// activity. Idempotent.
func (s *Service) RemoveInterestedConversation(user, conversation uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, u, err := s.conversationAndUser(conversation, user)
	if err != nil {
		return err
	}
	u.UnfollowConversation(c.ID)
	return nil
}

// IsInterestedConversation reports whether user follows the conversation.
func (s *Service) IsInterestedConversation(user, conversation uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.store.UserByID(user)
	if !ok {
		return false, fmt.Errorf("%w: user %s", chat.ErrNotFound, user)
	}
	return u.FollowsConversation(conversation), nil
}

// UsersStatusUpdate reports the titles of conversations the followed user
// started or posted in since the caller's last user check, then advances
// the watermark. The window is half-open, [lastUserCheck, now): now is
// captured once and reused as the new watermark so activity is reported
// exactly once across consecutive calls.
func (s *Service) UsersStatusUpdate(user, other uuid.UUID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.twoUsers(user, other)
	if err != nil {
		return nil, err
	}
	if !u.FollowsUser(other) {
		return nil, fmt.Errorf("%w: user %s", chat.ErrNotFollowing, other)
	}

	now := s.now()
	since := u.LastUserCheck

	titles := make(map[string]struct{})
	for _, c := range s.store.ConversationsBetween(since, now) {
		if c.Owner == other {
			titles[c.Title] = struct{}{}
		}
	}
	authored := s.store.MessagesByAuthors(map[uuid.UUID]struct{}{other: {}})
	for _, m := range authored {
		if m.CreatedAt.Before(since) || !m.CreatedAt.Before(now) {
			continue
		}
		if c, ok := s.store.ConversationByID(m.ConversationID); ok {
			titles[c.Title] = struct{}{}
		}
	}

	u.LastUserCheck = now

	out := make([]string, 0, len(titles))
	for t := range titles {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

// ConversationStatusUpdate reports how many messages were added to the
// conversation since the caller's last conversation check, then advances
// the watermark using the same captured now.
func (s *Service) ConversationStatusUpdate(user, conversation uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, u, err := s.conversationAndUser(conversation, user)
	if err != nil {
		return 0, err
	}
	if !u.FollowsConversation(c.ID) {
		return 0, fmt.Errorf("%w: conversation %q", chat.ErrNotFollowing, c.Title)
	}

	now := s.now()
	count := len(s.store.MessagesInBetween(c.ID, u.LastConversationCheck, now))
	u.LastConversationCheck = now
	return count, nil
}

func cloneUsers(in []*chat.User) []*chat.User {
	out := make([]*chat.User, len(in))
	for i, u := range in {
		out[i] = u.Clone()
	}
	return out
}

func cloneConversations(in []*chat.Conversation) []*chat.Conversation {
	out := make([]*chat.Conversation, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

func cloneMessages(in []*chat.Message) []*chat.Message {
	out := make([]*chat.Message, len(in))
	for i, m := range in {
		out[i] = m.Clone()
	}
	return out
}

// twoUsers resolves the acting user and verifies the other id exists.
// Callers must hold the lock.
func (s *Service) twoUsers(user, other uuid.UUID) (*chat.User, error) {
	u, ok := s.store.UserByID(user)
	if !ok {
		return nil, fmt.Errorf("%w: user %s", chat.ErrNotFound, user)
	}
	if _, ok := s.store.UserByID(other); !ok {
		return nil, fmt.Errorf("%w: user %s", chat.ErrNotFound, other)
	}
	return u, nil
}
