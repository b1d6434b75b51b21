package game

import (
	"time"

	"github.com/rs/zerolog"

	"scrawl/pkg/realtime"
)

// Evaluator consumes chat messages during active rounds. A correct guess is
// scored by remaining round time, recorded once per user, and broadcast
// without the word itself; anything else is echoed as plain chat.
type Evaluator struct {
	store *Store
	clock *realtime.Clock
	push  *Pusher
	log   zerolog.Logger
}

// NewEvaluator creates a guess evaluator.
func NewEvaluator(store *Store, clock *realtime.Clock, push *Pusher, log zerolog.Logger) *Evaluator {
	return &Evaluator{store: store, clock: clock, push: push, log: log}
}

// OnMessage evaluates one chat submission. Unknown games, games without an
// active round, and repeat or drawer guesses of the correct word all
// degrade to silence; only a scoring guess or a miss produces broadcasts.
func (ev *Evaluator) OnMessage(gameID, userID, text string) {
	g, ok := ev.store.Get(gameID)
	if !ok {
		return
	}
	now := time.Now().UTC()
	startedAt, _ := ev.clock.Get(gameID)
	res := g.EvaluateGuess(userID, text, now, startedAt)
	switch res.Outcome {
	case GuessCorrect:
		ids := g.UserIDs()
		ev.push.ToUsers(ids, EventScoreChanged, ScorePayload{
			RoundID:    res.RoundID,
			UserPoints: res.Scores,
		})
		ev.push.ToUsers(ids, EventChatMessage, ChatPayload{
			UserID:  userID,
			Correct: true,
			Points:  res.Points,
		})
		ev.log.Debug().Str("game", gameID).Str("user", userID).Int("points", res.Points).Msg("correct guess")
	case GuessWrong:
		ev.push.ToUsers(g.UserIDs(), EventChatMessage, ChatPayload{
			UserID: userID,
			Text:   text,
			Near:   res.Near,
		})
	}
}
