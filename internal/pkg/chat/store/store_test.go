package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chat "go-parley/internal/pkg/chat/domain"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func addUser(t *testing.T, s *Store, name string, offset time.Duration) *chat.User {
	t.Helper()
	u := chat.NewUser(chat.NewID(), name, baseTime.Add(offset))
	require.NoError(t, s.AddUser(u))
	return u
}

func addConversation(t *testing.T, s *Store, owner uuid.UUID, title string, offset time.Duration) *chat.Conversation {
	t.Helper()
	c, err := chat.NewConversation(chat.NewID(), owner, title, chat.AccessMember, baseTime.Add(offset))
	require.NoError(t, err)
	require.NoError(t, s.AddConversation(c))
	return c
}

func addMessage(t *testing.T, s *Store, conv, author uuid.UUID, content string, offset time.Duration) *chat.Message {
	t.Helper()
	m, err := chat.NewMessage(chat.NewID(), conv, author, content, baseTime.Add(offset))
	require.NoError(t, err)
	require.NoError(t, s.AddMessage(m))
	return m
}

func TestAddUserRejectsDuplicateID(t *testing.T) {
	s := New()
	u := addUser(t, s, "alice", 0)

	dup := chat.NewUser(u.ID, "impostor", baseTime)
	assert.ErrorIs(t, s.AddUser(dup), chat.ErrDuplicateID)
	assert.Len(t, s.Users(), 1)
}

func TestUsersOrderedByCreationTime(t *testing.T) {
	s := New()
	addUser(t, s, "zoe", 2*time.Second)
	addUser(t, s, "alice", 0)
	addUser(t, s, "bob", time.Second)

	users := s.Users()
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].Name)
	assert.Equal(t, "bob", users[1].Name)
	assert.Equal(t, "zoe", users[2].Name)
}

func TestUsersBetweenIsHalfOpen(t *testing.T) {
	s := New()
	addUser(t, s, "a", 0)
	b := addUser(t, s, "b", time.Second)
	addUser(t, s, "c", 2*time.Second)

	got := s.UsersBetween(baseTime.Add(time.Second), baseTime.Add(2*time.Second))
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
}

func TestUserLookupByNameIsCaseInsensitive(t *testing.T) {
	s := New()
	alice := addUser(t, s, "Alice", 0)

	got, ok := s.UserByName("alice")
	require.True(t, ok)
	assert.Equal(t, alice.ID, got.ID)
}

func TestUserByExactNameIsCaseSensitive(t *testing.T) {
	s := New()
	upper := addUser(t, s, "Bob", 0)
	lower := addUser(t, s, "bob", time.Second)

	got, ok := s.UserByExactName("bob")
	require.True(t, ok)
	assert.Equal(t, lower.ID, got.ID)

	got, ok = s.UserByExactName("Bob")
	require.True(t, ok)
	assert.Equal(t, upper.ID, got.ID)

	_, ok = s.UserByExactName("BOB")
	assert.False(t, ok)
}

func TestUsersByPrefixIgnoresCase(t *testing.T) {
	s := New()
	addUser(t, s, "Alice", 0)
	addUser(t, s, "alfred", time.Second)
	addUser(t, s, "bob", 2*time.Second)

	got := s.UsersByPrefix("AL")
	require.Len(t, got, 2)
	assert.Equal(t, "Alice", got[0].Name)
	assert.Equal(t, "alfred", got[1].Name)
}

func TestConversationIndices(t *testing.T) {
	s := New()
	owner := addUser(t, s, "alice", 0)
	first := addConversation(t, s, owner.ID, "General", time.Second)
	second := addConversation(t, s, owner.ID, "announcements", 2*time.Second)

	convos := s.Conversations()
	require.Len(t, convos, 2)
	assert.Equal(t, first.ID, convos[0].ID)
	assert.Equal(t, second.ID, convos[1].ID)

	byTitle, ok := s.ConversationByTitle("general")
	require.True(t, ok)
	assert.Equal(t, first.ID, byTitle.ID)

	dup, err := chat.NewConversation(first.ID, owner.ID, "Copy", chat.AccessMember, baseTime)
	require.NoError(t, err)
	assert.ErrorIs(t, s.AddConversation(dup), chat.ErrDuplicateID)
}

func TestMessagesInFiltersAndOrders(t *testing.T) {
	s := New()
	owner := addUser(t, s, "alice", 0)
	c1 := addConversation(t, s, owner.ID, "one", 0)
	c2 := addConversation(t, s, owner.ID, "two", 0)

	m3 := addMessage(t, s, c1.ID, owner.ID, "third", 3*time.Second)
	m1 := addMessage(t, s, c1.ID, owner.ID, "first", time.Second)
	addMessage(t, s, c2.ID, owner.ID, "elsewhere", 2*time.Second)

	got := s.MessagesIn(c1.ID)
	require.Len(t, got, 2)
	assert.Equal(t, m1.ID, got[0].ID)
	assert.Equal(t, m3.ID, got[1].ID)

	last, ok := s.LastMessage(c1.ID)
	require.True(t, ok)
	assert.Equal(t, m3.ID, last.ID)

	window := s.MessagesInBetween(c1.ID, baseTime.Add(time.Second), baseTime.Add(3*time.Second))
	require.Len(t, window, 1)
	assert.Equal(t, m1.ID, window[0].ID)
}

func TestMessagesByAuthors(t *testing.T) {
	s := New()
	alice := addUser(t, s, "alice", 0)
	bob := addUser(t, s, "bob", 0)
	carol := addUser(t, s, "carol", 0)
	c := addConversation(t, s, alice.ID, "General", 0)

	mBob := addMessage(t, s, c.ID, bob.ID, "from bob", 2*time.Second)
	mAlice := addMessage(t, s, c.ID, alice.ID, "from alice", time.Second)
	addMessage(t, s, c.ID, carol.ID, "from carol", 3*time.Second)

	got := s.MessagesByAuthors(map[uuid.UUID]struct{}{
		alice.ID: {},
		bob.ID:   {},
	})
	require.Len(t, got, 2)
	assert.Equal(t, mAlice.ID, got[0].ID, "creation order must be preserved")
	assert.Equal(t, mBob.ID, got[1].ID)
}

func TestMessagesByPrefix(t *testing.T) {
	s := New()
	alice := addUser(t, s, "alice", 0)
	c := addConversation(t, s, alice.ID, "General", 0)
	addMessage(t, s, c.ID, alice.ID, "Hello world", time.Second)
	addMessage(t, s, c.ID, alice.ID, "hello again", 2*time.Second)
	addMessage(t, s, c.ID, alice.ID, "bye", 3*time.Second)

	got := s.MessagesByPrefix("hel")
	assert.Len(t, got, 2)
}

func TestEqualTimestampsPreserveInsertionOrder(t *testing.T) {
	s := New()
	alice := addUser(t, s, "alice", 0)
	c := addConversation(t, s, alice.ID, "General", 0)

	first := addMessage(t, s, c.ID, alice.ID, "one", time.Second)
	second := addMessage(t, s, c.ID, alice.ID, "two", time.Second)

	got := s.MessagesIn(c.ID)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
}
