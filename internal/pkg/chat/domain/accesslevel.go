package chat

import "fmt"

// AccessLevel expresses the role a user holds within one conversation.
// creator outranks owner outranks member; blocked and mute are both
// restrictive but distinct: blocked cannot join at all, mute can read but
// not post.
type AccessLevel int16

const (
	AccessCreator AccessLevel = iota
	AccessOwner
	AccessMember
	AccessBlocked
	AccessMute
)

var levelNames = map[AccessLevel]string{
	AccessCreator: "creator",
	AccessOwner:   "owner",
	AccessMember:  "member",
	AccessBlocked: "blocked",
	AccessMute:    "mute",
}

func (l AccessLevel) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return fmt.Sprintf("accesslevel(%d)", int16(l))
}

// Valid reports whether l is one of the five defined levels.
func (l AccessLevel) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

// CanPost reports whether a user holding this level may add messages.
// Mute reads only; blocked never gets past join in the first place.
func (l AccessLevel) CanPost() bool {
	switch l {
	case AccessCreator, AccessOwner, AccessMember:
		return true
	default:
		return false
	}
}

// ParseAccessLevel maps the wire/CLI spelling of a level to its value.
func ParseAccessLevel(s string) (AccessLevel, error) {
	for l, name := range levelNames {
		if name == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAccessLevel, s)
}

// MarshalText serializes the level by name so JSON snapshots and API
// payloads stay readable.
func (l AccessLevel) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAccessLevel, int16(l))
	}
	return []byte(l.String()), nil
}

func (l *AccessLevel) UnmarshalText(b []byte) error {
	parsed, err := ParseAccessLevel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
