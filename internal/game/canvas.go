package game

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

// Relay forwards stroke batches from the active round's drawer to the rest
// of the game. This is the only authorization rule in the drawing path:
// anyone else's strokes are dropped, not merely hidden.
type Relay struct {
	store *Store
	push  *Pusher
	log   zerolog.Logger
}

// NewRelay creates a canvas relay.
func NewRelay(store *Store, push *Pusher, log zerolog.Logger) *Relay {
	return &Relay{store: store, push: push, log: log}
}

// OnCanvasChange broadcasts lines to every participant except the drawer,
// but only when userID is the active round's drawer. Otherwise the event is
// silently discarded.
func (r *Relay) OnCanvasChange(gameID, userID string, lines json.RawMessage) {
	if userID == "" {
		return
	}
	g, ok := r.store.Get(gameID)
	if !ok {
		return
	}
	drawerID, active := g.ActiveDrawer()
	if !active || drawerID != userID {
		return
	}
	ids := g.UserIDs()
	recipients := ids[:0]
	for _, id := range ids {
		if id != drawerID {
			recipients = append(recipients, id)
		}
	}
	r.push.ToUsers(recipients, EventCanvasChanged, CanvasPayload{GameID: gameID, Lines: lines})
}
