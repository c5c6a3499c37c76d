package chat

import "errors"

// Domain-level errors. Callers match with errors.Is; every failure in the
// core is one of these so the command layer can render a message and keep
// the session alive.
var (
	ErrDuplicateID           = errors.New("chat: identifier already exists")
	ErrDuplicateName         = errors.New("chat: user name already taken")
	ErrNotFound              = errors.New("chat: entity not found")
	ErrAccessDenied          = errors.New("chat: access denied")
	ErrInsufficientPrivilege = errors.New("chat: insufficient privilege")
	ErrInvalidAccessLevel    = errors.New("chat: invalid access level")
	ErrNotFollowing          = errors.New("chat: not in interest set")
)
