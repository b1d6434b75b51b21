package game

import (
	"time"

	"github.com/rs/zerolog"

	"scrawl/pkg/realtime"
)

// pregameDelay buffers client-side setup between the host starting a game
// and the first round beginning.
const pregameDelay = time.Second

// Engine owns the round lifecycle: it schedules the first round, rotates
// the drawer, appends rounds as their time comes, and tears the game down
// after the configured round count. Progression is driven entirely by the
// per-game wake loop; there is no external tick.
type Engine struct {
	store *Store
	clock *realtime.Clock
	push  *Pusher
	words []string
	delay time.Duration
	log   zerolog.Logger
}

// NewEngine creates a round engine over the given store and word list.
func NewEngine(store *Store, clock *realtime.Clock, push *Pusher, words []string, log zerolog.Logger) *Engine {
	return &Engine{
		store: store,
		clock: clock,
		push:  push,
		words: words,
		delay: pregameDelay,
		log:   log,
	}
}

// StartGame schedules the game's first round to begin after the pregame
// delay and starts its wake loop. Safe to call more than once.
func (e *Engine) StartGame(g *Game) {
	g.Schedule(time.Now().UTC(), e.delay)
	e.ensureLoop(g.ID)
	e.log.Info().Str("game", g.ID).Msg("game scheduled")
}

// ensureLoop arms the per-game loop that drives round transitions. Each
// tick advances at most one round or ends the game; a tick that fires after
// the game left the registry is a no-op that stops the loop.
func (e *Engine) ensureLoop(id string) {
	e.store.EnsureRoundLoop(id, func(g *Game, now time.Time) (time.Time, bool) {
		if g == nil {
			return time.Time{}, true
		}
		switch g.Advance(now, e.pickWord) {
		case AdvanceRound:
			e.clock.Set(g.ID, now)
			e.pushRounds(g, now)
			e.log.Debug().Str("game", g.ID).Int("round", len(g.Rounds)).Msg("round started")
		case AdvanceFinished:
			e.endGame(g)
			return time.Time{}, true
		}
		next, ok := g.NextWake(now)
		if !ok {
			return time.Time{}, true
		}
		return next, false
	})
}

// RoundsView builds the rounds projection for one viewer, hiding the active
// round's word from everyone but its drawer.
func (e *Engine) RoundsView(g *Game, viewerID string) []RoundView {
	startedAt, _ := e.clock.Get(g.ID)
	return g.RoundsView(viewerID, startedAt, time.Now().UTC())
}

// pushRounds sends each participant their own view of the rounds.
func (e *Engine) pushRounds(g *Game, now time.Time) {
	startedAt, _ := e.clock.Get(g.ID)
	for _, u := range g.UsersSnapshot() {
		e.push.ToUser(u.ID, EventRoundsChanged, g.RoundsView(u.ID, startedAt, now))
	}
}

// endGame notifies participants, removes the game from the registry (which
// refreshes every connected client's game list via the store watcher), and
// drops the round clock entry. Irreversible: later events for this game id
// find nothing and do nothing.
func (e *Engine) endGame(g *Game) {
	e.push.ToUsers(g.UserIDs(), EventGameEnded, GameRefPayload{GameID: g.ID})
	e.store.Remove(g.ID)
	e.clock.Remove(g.ID)
	e.log.Info().Str("game", g.ID).Msg("game ended")
}

func (e *Engine) pickWord() string {
	return pickWord(e.words)
}
