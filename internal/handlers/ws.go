package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"scrawl/internal/game"
	"scrawl/pkg/realtime"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades one connection per user and bridges it to the push
// directory: outbound events flow from the directory channel, inbound frames
// are dispatched to the guess evaluator and the canvas relay.
type WSHandler struct {
	dir       *realtime.Directory
	users     *game.Users
	evaluator *game.Evaluator
	relay     *game.Relay
	log       zerolog.Logger
}

func NewWSHandler(dir *realtime.Directory, users *game.Users, evaluator *game.Evaluator, relay *game.Relay, log zerolog.Logger) *WSHandler {
	return &WSHandler{dir: dir, users: users, evaluator: evaluator, relay: relay, log: log}
}

func (h *WSHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{userID}", h.serve)
}

func (h *WSHandler) serve(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if _, ok := h.users.Get(userID); !ok {
		http.NotFound(w, r)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Str("user", userID).Msg("websocket upgrade")
		return
	}

	c := &client{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		userID: userID,
	}
	// A reconnect replaces the previous channel; its writePump drains and
	// exits when the directory closes it.
	h.dir.Set(userID, c.send)
	h.log.Debug().Str("user", userID).Msg("websocket connected")

	go c.writePump()
	h.readPump(c)
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

// clientFrame is the inbound message format. Type selects the dispatch
// target; data is decoded per type.
type clientFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type chatFrame struct {
	GameID string `json:"gameId"`
	Text   string `json:"text"`
}

type canvasFrame struct {
	GameID string          `json:"gameId"`
	Lines  json.RawMessage `json:"lines"`
}

func (h *WSHandler) readPump(c *client) {
	defer func() {
		h.dir.Remove(c.userID, c.send)
		c.conn.Close()
		h.log.Debug().Str("user", c.userID).Msg("websocket disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var frame clientFrame
		if err := c.conn.ReadJSON(&frame); err != nil {
			return
		}
		switch frame.Type {
		case game.EventChatMessage:
			var msg chatFrame
			if err := json.Unmarshal(frame.Data, &msg); err != nil {
				continue
			}
			h.evaluator.OnMessage(msg.GameID, c.userID, msg.Text)
		case game.EventCanvasChanged:
			var msg canvasFrame
			if err := json.Unmarshal(frame.Data, &msg); err != nil {
				continue
			}
			h.relay.OnCanvasChange(msg.GameID, c.userID, msg.Lines)
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
