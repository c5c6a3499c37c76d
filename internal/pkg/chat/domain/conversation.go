package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Conversation is the aggregate for one thread and its membership rules.
//
// Membership maps user id to AccessLevel. Entries are only ever added or
// overwritten, never removed; Membership[Owner] is AccessCreator from
// construction on and no transition can change it.
type Conversation struct {
	ID           uuid.UUID
	Owner        uuid.UUID
	CreatedAt    time.Time
	Title        string
	DefaultLevel AccessLevel

	Membership map[uuid.UUID]AccessLevel
}

// NewConversation validates and builds a conversation owned by owner.
// defaultLevel applies to first-time joiners; creator is rejected as a
// default because creator is unique per conversation.
func NewConversation(id, owner uuid.UUID, title string, defaultLevel AccessLevel, createdAt time.Time) (*Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("conversation title is required")
	}
	if !defaultLevel.Valid() || defaultLevel == AccessCreator {
		return nil, fmt.Errorf("%w: %s is not a valid default", ErrInvalidAccessLevel, defaultLevel)
	}
	return &Conversation{
		ID:           id,
		Owner:        owner,
		CreatedAt:    createdAt,
		Title:        title,
		DefaultLevel: defaultLevel,
		Membership:   map[uuid.UUID]AccessLevel{owner: AccessCreator},
	}, nil
}

// Clone returns a deep copy with its own membership map.
func (c *Conversation) Clone() *Conversation {
	cp := *c
	cp.Membership = make(map[uuid.UUID]AccessLevel, len(c.Membership))
	for id, level := range c.Membership {
		cp.Membership[id] = level
	}
	return &cp
}

// Level returns the user's membership entry, if any.
func (c *Conversation) Level(user uuid.UUID) (AccessLevel, bool) {
	l, ok := c.Membership[user]
	return l, ok
}

// Join admits the user at their current level, materializing a membership
// entry at DefaultLevel on first join. A resolved level of blocked denies
// entry with ErrAccessDenied; joining never changes an already-assigned
// level.
func (c *Conversation) Join(user uuid.UUID) (AccessLevel, error) {
	level, ok := c.Membership[user]
	if !ok {
		level = c.DefaultLevel
		c.Membership[user] = level
	}
	if level == AccessBlocked {
		return level, fmt.Errorf("%w: user %s is blocked from %q", ErrAccessDenied, user, c.Title)
	}
	return level, nil
}

// ChangeLevel applies the administrative transition rules, checked in order:
//
//  1. newLevel must be owner, member, blocked or mute. Creator status is
//     never assignable.
//  2. A creator may set any non-creator's level.
//  3. An owner may only act on users currently at member.
//  4. Nobody else has administrative capability.
func (c *Conversation) ChangeLevel(actor, target uuid.UUID, newLevel AccessLevel) error {
	if !newLevel.Valid() || newLevel == AccessCreator {
		return fmt.Errorf("%w: cannot assign %s", ErrInvalidAccessLevel, newLevel)
	}

	actorLevel, ok := c.Membership[actor]
	if !ok {
		return fmt.Errorf("%w: user %s is not a member of %q", ErrInsufficientPrivilege, actor, c.Title)
	}

	targetLevel, targetKnown := c.Membership[target]

	switch actorLevel {
	case AccessCreator:
		if targetKnown && targetLevel == AccessCreator {
			return fmt.Errorf("%w: creator status is immutable", ErrInsufficientPrivilege)
		}
	case AccessOwner:
		if !targetKnown || targetLevel != AccessMember {
			return fmt.Errorf("%w: owners may only act on members", ErrInsufficientPrivilege)
		}
	default:
		return fmt.Errorf("%w: %s cannot change access levels", ErrInsufficientPrivilege, actorLevel)
	}

	c.Membership[target] = newLevel
	return nil
}

// CanPost reports whether the user may add messages to this conversation.
func (c *Conversation) CanPost(user uuid.UUID) bool {
	level, ok := c.Membership[user]
	return ok && level.CanPost()
}
