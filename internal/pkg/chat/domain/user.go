package chat

import (
	"time"

	"github.com/google/uuid"
)

// User is an account record plus the mutable follow state used by status
// queries. Identity fields never change after sign-up; the interest sets and
// check watermarks are owned by the user and mutated in place.
type User struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time

	InterestedUsers         map[uuid.UUID]struct{}
	InterestedConversations map[uuid.UUID]struct{}

	// LastUserCheck and LastConversationCheck bound the half-open window
	// [check, now) scanned by the next status update. They start at the
	// creation time so a fresh account only sees activity from sign-up on.
	LastUserCheck         time.Time
	LastConversationCheck time.Time
}

func NewUser(id uuid.UUID, name string, createdAt time.Time) *User {
	return &User{
		ID:                      id,
		Name:                    name,
		CreatedAt:               createdAt,
		InterestedUsers:         make(map[uuid.UUID]struct{}),
		InterestedConversations: make(map[uuid.UUID]struct{}),
		LastUserCheck:           createdAt,
		LastConversationCheck:   createdAt,
	}
}

// Clone returns a deep copy detached from the original: mutating either
// side's interest sets or watermarks leaves the other untouched.
func (u *User) Clone() *User {
	cp := *u
	cp.InterestedUsers = make(map[uuid.UUID]struct{}, len(u.InterestedUsers))
	for id := range u.InterestedUsers {
		cp.InterestedUsers[id] = struct{}{}
	}
	cp.InterestedConversations = make(map[uuid.UUID]struct{}, len(u.InterestedConversations))
	for id := range u.InterestedConversations {
		cp.InterestedConversations[id] = struct{}{}
	}
	return &cp
}

// FollowUser adds other to the interest set. Idempotent.
func (u *User) FollowUser(other uuid.UUID) {
	u.InterestedUsers[other] = struct{}{}
}

// UnfollowUser removes other from the interest set. Idempotent.
func (u *User) UnfollowUser(other uuid.UUID) {
	delete(u.InterestedUsers, other)
}

func (u *User) FollowsUser(other uuid.UUID) bool {
	_, ok := u.InterestedUsers[other]
	return ok
}

// FollowConversation adds the conversation to the interest set. Idempotent.
func (u *User) FollowConversation(conversation uuid.UUID) {
	u.InterestedConversations[conversation] = struct{}{}
}

// UnfollowConversation removes the conversation from the interest set.
// Idempotent.
func (u *User) UnfollowConversation(conversation uuid.UUID) {
	delete(u.InterestedConversations, conversation)
}

func (u *User) FollowsConversation(conversation uuid.UUID) bool {
	_, ok := u.InterestedConversations[conversation]
	return ok
}
