package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// Router coordinates websocket sessions and conversation rooms. One active
// connection per user; message events fan out to every session joined to
// the conversation.
type Router struct {
	mu           sync.RWMutex
	sessions     map[string]*Connection               // sessionID -> connection
	userSessions map[uuid.UUID]string                 // userID -> sessionID
	rooms        map[uuid.UUID]map[string]*Connection // conversationID -> sessionID -> connection
	sessionRooms map[string]map[uuid.UUID]struct{}    // sessionID -> joined conversations
}

func NewRouter() *Router {
	return &Router{
		sessions:     make(map[string]*Connection),
		userSessions: make(map[uuid.UUID]string),
		rooms:        make(map[uuid.UUID]map[string]*Connection),
		sessionRooms: make(map[string]map[uuid.UUID]struct{}),
	}
}

// Attach registers a connection for its user and starts its write loop.
// Any previous session for the same user is replaced and closed.
func (r *Router) Attach(conn *Connection) {
	var previous *Connection

	r.mu.Lock()
	if existingID, ok := r.userSessions[conn.UserID]; ok {
		if existing := r.sessions[existingID]; existing != nil {
			previous = existing
			r.detachLocked(existingID)
		}
	}
	r.sessions[conn.ID] = conn
	r.userSessions[conn.UserID] = conn.ID
	r.sessionRooms[conn.ID] = make(map[uuid.UUID]struct{})
	r.mu.Unlock()

	conn.Start()

	if previous != nil {
		previous.Close(4001, "session replaced")
	}
}

// Detach removes a connection if it is still tracked.
func (r *Router) Detach(conn *Connection) {
	r.mu.Lock()
	r.detachLocked(conn.ID)
	r.mu.Unlock()
}

// Join adds the connection to the conversation room. Access checks happen
// before this is called; the router only tracks fan-out targets.
func (r *Router) Join(conversation uuid.UUID, conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[conn.ID]; !ok {
		return
	}
	room := r.rooms[conversation]
	if room == nil {
		room = make(map[string]*Connection)
		r.rooms[conversation] = room
	}
	room[conn.ID] = conn
	r.sessionRooms[conn.ID][conversation] = struct{}{}
}

// Leave removes the connection from the conversation room.
func (r *Router) Leave(conversation uuid.UUID, conn *Connection) {
	r.mu.Lock()
	r.leaveLocked(conversation, conn.ID)
	r.mu.Unlock()
}

// Broadcast writes payload to every session in the conversation room,
// skipping excludeUser when non-nil, and returns the delivery count.
func (r *Router) Broadcast(conversation uuid.UUID, payload []byte, excludeUser uuid.UUID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	delivered := 0
	for _, conn := range r.rooms[conversation] {
		if excludeUser != uuid.Nil && conn.UserID == excludeUser {
			continue
		}
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// NotifyUser delivers payload to the user's current session, if any.
func (r *Router) NotifyUser(userID uuid.UUID, payload []byte) bool {
	r.mu.RLock()
	sessionID, ok := r.userSessions[userID]
	conn := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok || conn == nil {
		return false
	}
	return conn.Send(payload) == nil
}

// Close terminates all tracked connections and clears router state.
func (r *Router) Close() {
	r.mu.Lock()
	sessions := make([]*Connection, 0, len(r.sessions))
	for _, conn := range r.sessions {
		sessions = append(sessions, conn)
	}
	r.sessions = make(map[string]*Connection)
	r.userSessions = make(map[uuid.UUID]string)
	r.rooms = make(map[uuid.UUID]map[string]*Connection)
	r.sessionRooms = make(map[string]map[uuid.UUID]struct{})
	r.mu.Unlock()

	for _, conn := range sessions {
		conn.Close(1001, "router shutdown")
	}
}

func (r *Router) detachLocked(sessionID string) {
	conn, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	delete(r.sessions, sessionID)

	if current, ok := r.userSessions[conn.UserID]; ok && current == sessionID {
		delete(r.userSessions, conn.UserID)
	}

	for roomID := range r.sessionRooms[sessionID] {
		r.leaveLocked(roomID, sessionID)
	}
	delete(r.sessionRooms, sessionID)
}

func (r *Router) leaveLocked(conversation uuid.UUID, sessionID string) {
	room := r.rooms[conversation]
	if room == nil {
		return
	}
	delete(room, sessionID)
	if len(room) == 0 {
		delete(r.rooms, conversation)
	}
	if memberships, ok := r.sessionRooms[sessionID]; ok {
		delete(memberships, conversation)
	}
}
