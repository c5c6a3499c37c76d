package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConversation(t *testing.T, defaultLevel AccessLevel) (*Conversation, User) {
	t.Helper()
	owner := NewUser(NewID(), "owner", time.Now())
	conv, err := NewConversation(NewID(), owner.ID, "General", defaultLevel, time.Now())
	require.NoError(t, err)
	return conv, *owner
}

func TestNewConversationSetsCreator(t *testing.T) {
	conv, owner := newTestConversation(t, AccessMember)
	level, ok := conv.Level(owner.ID)
	require.True(t, ok)
	assert.Equal(t, AccessCreator, level)
}

func TestNewConversationRejectsCreatorDefault(t *testing.T) {
	owner := NewID()
	_, err := NewConversation(NewID(), owner, "General", AccessCreator, time.Now())
	assert.ErrorIs(t, err, ErrInvalidAccessLevel)
}

func TestJoinMaterializesDefaultLevel(t *testing.T) {
	conv, _ := newTestConversation(t, AccessMember)
	visitor := NewID()

	level, err := conv.Join(visitor)
	require.NoError(t, err)
	assert.Equal(t, AccessMember, level)

	stored, ok := conv.Level(visitor)
	require.True(t, ok)
	assert.Equal(t, AccessMember, stored)
}

func TestJoinIsIdempotentOnLevel(t *testing.T) {
	conv, owner := newTestConversation(t, AccessMember)
	visitor := NewID()

	_, err := conv.Join(visitor)
	require.NoError(t, err)
	require.NoError(t, conv.ChangeLevel(owner.ID, visitor, AccessMute))

	level, err := conv.Join(visitor)
	require.NoError(t, err)
	assert.Equal(t, AccessMute, level, "joining again must not reset an assigned level")
}

func TestJoinDeniesBlockedDefault(t *testing.T) {
	conv, _ := newTestConversation(t, AccessBlocked)
	visitor := NewID()

	_, err := conv.Join(visitor)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestJoinDeniesExplicitlyBlockedUser(t *testing.T) {
	conv, owner := newTestConversation(t, AccessMember)
	visitor := NewID()
	_, err := conv.Join(visitor)
	require.NoError(t, err)
	require.NoError(t, conv.ChangeLevel(owner.ID, visitor, AccessBlocked))

	_, err = conv.Join(visitor)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestMuteCanJoinButNotPost(t *testing.T) {
	conv, _ := newTestConversation(t, AccessMute)
	visitor := NewID()

	level, err := conv.Join(visitor)
	require.NoError(t, err)
	assert.Equal(t, AccessMute, level)
	assert.False(t, conv.CanPost(visitor))
}

func TestChangeLevelRejectsCreatorTarget(t *testing.T) {
	conv, owner := newTestConversation(t, AccessMember)
	visitor := NewID()
	_, err := conv.Join(visitor)
	require.NoError(t, err)

	err = conv.ChangeLevel(owner.ID, visitor, AccessCreator)
	assert.ErrorIs(t, err, ErrInvalidAccessLevel)
}

func TestCreatorMayPromoteAndDemote(t *testing.T) {
	conv, owner := newTestConversation(t, AccessMember)
	visitor := NewID()
	_, err := conv.Join(visitor)
	require.NoError(t, err)

	for _, level := range []AccessLevel{AccessOwner, AccessMember, AccessBlocked, AccessMute} {
		require.NoError(t, conv.ChangeLevel(owner.ID, visitor, level))
		got, _ := conv.Level(visitor)
		assert.Equal(t, level, got)
	}
}

func TestCreatorStatusIsImmutable(t *testing.T) {
	conv, owner := newTestConversation(t, AccessMember)

	err := conv.ChangeLevel(owner.ID, owner.ID, AccessMember)
	assert.ErrorIs(t, err, ErrInsufficientPrivilege)

	level, _ := conv.Level(owner.ID)
	assert.Equal(t, AccessCreator, level)
}

func TestOwnerMayOnlyActOnMembers(t *testing.T) {
	conv, creator := newTestConversation(t, AccessMember)
	owner := NewID()
	member := NewID()
	otherOwner := NewID()

	_, err := conv.Join(owner)
	require.NoError(t, err)
	_, err = conv.Join(member)
	require.NoError(t, err)
	_, err = conv.Join(otherOwner)
	require.NoError(t, err)

	require.NoError(t, conv.ChangeLevel(creator.ID, owner, AccessOwner))
	require.NoError(t, conv.ChangeLevel(creator.ID, otherOwner, AccessOwner))

	// Demoting a member works at any target level.
	require.NoError(t, conv.ChangeLevel(owner, member, AccessBlocked))

	// Creators and fellow owners are out of reach regardless of the
	// requested level.
	for _, level := range []AccessLevel{AccessOwner, AccessMember, AccessBlocked, AccessMute} {
		assert.ErrorIs(t, conv.ChangeLevel(owner, creator.ID, level), ErrInsufficientPrivilege)
		assert.ErrorIs(t, conv.ChangeLevel(owner, otherOwner, level), ErrInsufficientPrivilege)
	}
}

func TestNonAdminsCannotChangeLevels(t *testing.T) {
	conv, creator := newTestConversation(t, AccessMember)
	member := NewID()
	muted := NewID()
	target := NewID()

	_, err := conv.Join(member)
	require.NoError(t, err)
	_, err = conv.Join(muted)
	require.NoError(t, err)
	_, err = conv.Join(target)
	require.NoError(t, err)
	require.NoError(t, conv.ChangeLevel(creator.ID, muted, AccessMute))

	assert.ErrorIs(t, conv.ChangeLevel(member, target, AccessBlocked), ErrInsufficientPrivilege)
	assert.ErrorIs(t, conv.ChangeLevel(muted, target, AccessBlocked), ErrInsufficientPrivilege)
	assert.ErrorIs(t, conv.ChangeLevel(NewID(), target, AccessBlocked), ErrInsufficientPrivilege)
}
