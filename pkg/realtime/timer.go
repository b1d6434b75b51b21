package realtime

import "time"

// RoundTimer holds the timing state for a bounded sequence of fixed-length
// rounds: a scheduled start, the duration of every round, and when the
// current round began. It does not hold game-specific state (players,
// words, scores); the game composes it and reacts to Advance(now) by
// updating its own state.
type RoundTimer struct {
	Rounds       int
	Duration     time.Duration
	StartAt      time.Time
	CurrentRound int
	RoundStarted time.Time
}

// Schedule arms the timer so the first round begins at the given time.
// Once armed, further calls are no-ops.
func (t *RoundTimer) Schedule(at time.Time) {
	if t.StartAt.IsZero() {
		t.StartAt = at
	}
}

// Scheduled reports whether the timer has been armed.
func (t *RoundTimer) Scheduled() bool {
	return !t.StartAt.IsZero()
}

// NextWake returns the next time the round state should advance, and whether
// the schedule is active (Schedule called). If not active, returns (zero, false).
func (t *RoundTimer) NextWake(now time.Time) (time.Time, bool) {
	if t.StartAt.IsZero() {
		return time.Time{}, false
	}
	if t.CurrentRound == 0 {
		return t.StartAt, true
	}
	next := t.RoundStarted.Add(t.Duration)
	if now.After(next) {
		return now, true
	}
	return next, true
}

// Advance updates timing state based on now. It may begin the first round
// (once the scheduled start has passed), move to the next round, or report
// the sequence finished after the last round's duration elapses. Exactly one
// of these happens per call; the caller updates game state when advanced is
// true and tears the game down when finished is true.
func (t *RoundTimer) Advance(now time.Time) (advanced bool, finished bool) {
	if t.StartAt.IsZero() {
		return false, false
	}
	if t.CurrentRound == 0 {
		if now.Before(t.StartAt) {
			return false, false
		}
		t.CurrentRound = 1
		t.RoundStarted = now
		return true, false
	}
	if now.Before(t.RoundStarted.Add(t.Duration)) {
		return false, false
	}
	if t.CurrentRound >= t.Rounds {
		return true, true
	}
	t.CurrentRound++
	t.RoundStarted = now
	return true, false
}
