// Package ws attaches websocket sessions to the realtime router so clients
// receive new-message events for the conversations they have joined.
package ws

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"go-parley/internal/infrastructure/realtime"
	"go-parley/internal/pkg/chat/application"
)

// Handler upgrades HTTP requests to websocket sessions.
type Handler struct {
	Svc      *application.Service
	Router   *realtime.Router
	upgrader websocket.Upgrader
}

func NewHandler(svc *application.Service, router *realtime.Router) *Handler {
	return &Handler{
		Svc:    svc,
		Router: router,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// clientFrame is what a connected client may send: join or leave a
// conversation room. Joining runs through the access engine, so a blocked
// user never lands in a room.
type clientFrame struct {
	Action         string    `json:"action"`
	ConversationID uuid.UUID `json:"conversation_id"`
}

type serverFrame struct {
	Type           string    `json:"type"`
	ConversationID uuid.UUID `json:"conversation_id,omitempty"`
	AccessLevel    string    `json:"access_level,omitempty"`
	Error          string    `json:"error,omitempty"`
}

// Handle returns a gin handler serving GET /ws?user_id=<uuid>.
func (h *Handler) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.Query("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be a uuid"})
			return
		}

		conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("ws: upgrade: %v", err)
			return
		}

		session := realtime.NewConnection(userID, conn)
		h.Router.Attach(session)
		go h.readLoop(session, conn)
	}
}

func (h *Handler) readLoop(session *realtime.Connection, conn *websocket.Conn) {
	defer h.Router.Detach(session)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var frame clientFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			h.reply(session, serverFrame{Type: "error", Error: "malformed frame"})
			continue
		}

		switch frame.Action {
		case "join":
			level, err := h.Svc.JoinConversation(frame.ConversationID, session.UserID)
			if err != nil {
				h.reply(session, serverFrame{Type: "error", ConversationID: frame.ConversationID, Error: err.Error()})
				continue
			}
			h.Router.Join(frame.ConversationID, session)
			h.reply(session, serverFrame{Type: "joined", ConversationID: frame.ConversationID, AccessLevel: level.String()})
		case "leave":
			h.Router.Leave(frame.ConversationID, session)
			h.reply(session, serverFrame{Type: "left", ConversationID: frame.ConversationID})
		default:
			h.reply(session, serverFrame{Type: "error", Error: "unknown action"})
		}
	}
}

func (h *Handler) reply(session *realtime.Connection, frame serverFrame) {
	if payload, err := json.Marshal(frame); err == nil {
		_ = session.Send(payload)
	}
}
