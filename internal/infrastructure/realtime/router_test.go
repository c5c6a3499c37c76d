package realtime_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-parley/internal/infrastructure/realtime"
)

// newSession upgrades a real websocket pair and wraps the server side in a
// Connection, returning the client side for reading.
func newSession(t *testing.T, userID uuid.UUID) (*realtime.Connection, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverSide := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverSide <- ws
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { client.Close() })

	return realtime.NewConnection(userID, <-serverSide), client
}

func readText(t *testing.T, client *websocket.Conn) string {
	t.Helper()
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := client.ReadMessage()
	require.NoError(t, err)
	return string(payload)
}

func TestBroadcastReachesJoinedSessions(t *testing.T) {
	r := realtime.NewRouter()
	defer r.Close()

	room := uuid.New()
	author := uuid.New()
	reader := uuid.New()

	authorConn, _ := newSession(t, author)
	readerConn, readerClient := newSession(t, reader)

	r.Attach(authorConn)
	r.Attach(readerConn)
	r.Join(room, authorConn)
	r.Join(room, readerConn)

	delivered := r.Broadcast(room, []byte(`{"type":"message"}`), author)
	assert.Equal(t, 1, delivered, "author is excluded from their own fan-out")
	assert.Equal(t, `{"type":"message"}`, readText(t, readerClient))
}

func TestAttachReplacesPreviousSession(t *testing.T) {
	r := realtime.NewRouter()
	defer r.Close()

	user := uuid.New()
	first, firstClient := newSession(t, user)
	second, secondClient := newSession(t, user)

	r.Attach(first)
	r.Attach(second)

	require.NoError(t, firstClient.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := firstClient.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, 4001, closeErr.Code)

	require.True(t, r.NotifyUser(user, []byte("hello")))
	assert.Equal(t, "hello", readText(t, secondClient))
}

func TestDetachLeavesRooms(t *testing.T) {
	r := realtime.NewRouter()
	defer r.Close()

	room := uuid.New()
	conn, _ := newSession(t, uuid.New())

	r.Attach(conn)
	r.Join(room, conn)
	r.Detach(conn)

	assert.Equal(t, 0, r.Broadcast(room, []byte("x"), uuid.Nil))
	assert.False(t, r.NotifyUser(conn.UserID, []byte("x")))
}
