package snapshot_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-parley/internal/pkg/chat/application"
	chat "go-parley/internal/pkg/chat/domain"
	"go-parley/internal/pkg/chat/persistence/snapshot"
	"go-parley/internal/pkg/chat/store"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// populate builds a service with users, a conversation with a demoted
// member, interests, watermarks and a liked message.
func populate(t *testing.T) (*application.Service, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := application.NewService(store.New(), application.WithClock(clock.Now))

	alice, err := svc.CreateUser("alice")
	require.NoError(t, err)
	clock.Advance(time.Second)
	bob, err := svc.CreateUser("bob")
	require.NoError(t, err)
	clock.Advance(time.Second)

	general, err := svc.CreateConversation("General", alice.ID, chat.AccessMember)
	require.NoError(t, err)
	clock.Advance(time.Second)

	_, err = svc.JoinConversation(general.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.PostMessage(general.ID, bob.ID, "hi")
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = svc.PostMessage(general.ID, alice.ID, "welcome")
	require.NoError(t, err)
	_, err = svc.LikeLastMessage(general.ID, bob.ID)
	require.NoError(t, err)

	require.NoError(t, svc.ChangeAccessLevel(general.ID, alice.ID, bob.ID, chat.AccessMute))
	require.NoError(t, svc.AddInterestedUser(alice.ID, bob.ID))
	require.NoError(t, svc.AddInterestedConversation(bob.ID, general.ID))

	clock.Advance(time.Second)
	_, err = svc.UsersStatusUpdate(alice.ID, bob.ID)
	require.NoError(t, err)

	return svc, clock
}

func TestFileStoreRoundTrip(t *testing.T) {
	svc, clock := populate(t)
	path := filepath.Join(t.TempDir(), "state", "parley.json")

	fs, err := snapshot.NewFileStore(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, fs.Save(ctx, svc.Snapshot()))

	loaded, err := fs.Load(ctx)
	require.NoError(t, err)
	restored, err := application.Restore(loaded, application.WithClock(clock.Now))
	require.NoError(t, err)

	// Same ids in the same order under the creation-time index.
	wantUsers := svc.ListUsers()
	gotUsers := restored.ListUsers()
	require.Len(t, gotUsers, len(wantUsers))
	for i := range wantUsers {
		assert.Equal(t, wantUsers[i].ID, gotUsers[i].ID)
		assert.Equal(t, wantUsers[i].Name, gotUsers[i].Name)
		assert.True(t, wantUsers[i].CreatedAt.Equal(gotUsers[i].CreatedAt))
		assert.True(t, wantUsers[i].LastUserCheck.Equal(gotUsers[i].LastUserCheck))
		assert.Equal(t, wantUsers[i].InterestedUsers, gotUsers[i].InterestedUsers)
		assert.Equal(t, wantUsers[i].InterestedConversations, gotUsers[i].InterestedConversations)
	}

	wantConvos := svc.ListConversations()
	gotConvos := restored.ListConversations()
	require.Len(t, gotConvos, len(wantConvos))
	for i := range wantConvos {
		assert.Equal(t, wantConvos[i].ID, gotConvos[i].ID)
		assert.Equal(t, wantConvos[i].Membership, gotConvos[i].Membership)
		assert.Equal(t, wantConvos[i].DefaultLevel, gotConvos[i].DefaultLevel)
	}

	for _, conv := range wantConvos {
		want, err := svc.ListMessages(conv.ID)
		require.NoError(t, err)
		got, err := restored.ListMessages(conv.ID)
		require.NoError(t, err)
		require.Len(t, got, len(want))
		for i := range want {
			assert.Equal(t, want[i].ID, got[i].ID)
			assert.Equal(t, want[i].Content, got[i].Content)
			assert.Equal(t, want[i].Likes, got[i].Likes)
		}
	}
}

// A restored service keeps working: the watermark consumed before the save
// stays consumed afterwards.
func TestRestoredServiceKeepsWatermarks(t *testing.T) {
	svc, clock := populate(t)
	path := filepath.Join(t.TempDir(), "parley.json")

	fs, err := snapshot.NewFileStore(path)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, fs.Save(ctx, svc.Snapshot()))

	loaded, err := fs.Load(ctx)
	require.NoError(t, err)
	restored, err := application.Restore(loaded, application.WithClock(clock.Now))
	require.NoError(t, err)

	alice := restored.ListUsers()[0]
	bob := restored.ListUsers()[1]

	titles, err := restored.UsersStatusUpdate(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, titles, "delta before the save must not be replayed after restore")
}

func TestFileStoreFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env-snapshot.json")
	t.Setenv("SNAPSHOT_PATH", path)

	fs, err := snapshot.NewFileStoreFromEnv()
	require.NoError(t, err)
	require.NoError(t, fs.Save(context.Background(), &snapshot.Snapshot{}))

	loaded, err := fs.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded.Users)

	t.Setenv("SNAPSHOT_PATH", "")
	_, err = snapshot.NewFileStoreFromEnv()
	assert.Error(t, err)
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	fs, err := snapshot.NewFileStore(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	snap, err := fs.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Users)
	assert.Empty(t, snap.Conversations)
	assert.Empty(t, snap.Messages)
}
