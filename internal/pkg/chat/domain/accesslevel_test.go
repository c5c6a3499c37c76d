package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccessLevel(t *testing.T) {
	for _, name := range []string{"creator", "owner", "member", "blocked", "mute"} {
		level, err := ParseAccessLevel(name)
		require.NoError(t, err)
		assert.Equal(t, name, level.String())
	}

	_, err := ParseAccessLevel("admin")
	assert.ErrorIs(t, err, ErrInvalidAccessLevel)
}

func TestAccessLevelCanPost(t *testing.T) {
	assert.True(t, AccessCreator.CanPost())
	assert.True(t, AccessOwner.CanPost())
	assert.True(t, AccessMember.CanPost())
	assert.False(t, AccessBlocked.CanPost())
	assert.False(t, AccessMute.CanPost())
}

func TestAccessLevelMarshalText(t *testing.T) {
	raw, err := AccessMute.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "mute", string(raw))

	var level AccessLevel
	require.NoError(t, level.UnmarshalText([]byte("blocked")))
	assert.Equal(t, AccessBlocked, level)

	_, err = AccessLevel(42).MarshalText()
	assert.ErrorIs(t, err, ErrInvalidAccessLevel)
}
