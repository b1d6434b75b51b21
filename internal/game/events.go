package game

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"scrawl/pkg/realtime"
)

// Push event types carried in the envelope's type field.
const (
	EventRoundsChanged   = "rounds_changed"
	EventGameEnded       = "game_ended"
	EventScoreChanged    = "score_changed"
	EventChatMessage     = "chat_message"
	EventCanvasChanged   = "canvas_changed"
	EventGameListChanged = "game_list_changed"
	EventGameChanged     = "game_changed"
	EventGameStarted     = "game_started"
	EventLeaveGame       = "leave_game"
)

// Envelope is the wire format for every push event.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ChatPayload echoes a guess back to the game. Text is empty on a correct
// guess so the answer is never re-broadcast; Near flags a wrong guess
// within editing distance of the word.
type ChatPayload struct {
	UserID  string `json:"userId"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
	Near    bool   `json:"near,omitempty"`
	Points  int    `json:"points,omitempty"`
}

// ScorePayload carries the active round's full points map.
type ScorePayload struct {
	RoundID    string         `json:"roundId"`
	UserPoints map[string]int `json:"userPoints"`
}

// GameRefPayload names a game in lifecycle events.
type GameRefPayload struct {
	GameID string `json:"gameId"`
}

// CanvasPayload relays a stroke batch exactly as received.
type CanvasPayload struct {
	GameID string          `json:"gameId"`
	Lines  json.RawMessage `json:"lines"`
}

// Pusher encodes events and delivers them through the connection directory.
// Delivery is push-and-forget: absent or lagging recipients are skipped.
type Pusher struct {
	dir *realtime.Directory
	log zerolog.Logger
}

// NewPusher wires event delivery to the given directory.
func NewPusher(dir *realtime.Directory, log zerolog.Logger) *Pusher {
	return &Pusher{dir: dir, log: log}
}

func (p *Pusher) encode(event string, payload any) ([]byte, bool) {
	data, err := json.Marshal(payload)
	if err != nil {
		p.log.Warn().Err(err).Str("event", event).Msg("encode payload")
		return nil, false
	}
	msg, err := json.Marshal(Envelope{Type: event, Data: data})
	if err != nil {
		p.log.Warn().Err(err).Str("event", event).Msg("encode envelope")
		return nil, false
	}
	return msg, true
}

// ToUser delivers one event to a single user.
func (p *Pusher) ToUser(userID, event string, payload any) {
	msg, ok := p.encode(event, payload)
	if !ok {
		return
	}
	p.dir.Send(userID, msg)
}

// ToUsers delivers one event to each listed user.
func (p *Pusher) ToUsers(userIDs []string, event string, payload any) {
	msg, ok := p.encode(event, payload)
	if !ok {
		return
	}
	p.dir.SendEach(userIDs, msg)
}

// ToAll delivers one event to every connected user.
func (p *Pusher) ToAll(event string, payload any) {
	msg, ok := p.encode(event, payload)
	if !ok {
		return
	}
	p.dir.Broadcast(msg)
}
