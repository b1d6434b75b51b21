package game

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"scrawl/pkg/realtime"
)

// User is a registered participant. Immutable once created.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Round is one timed turn: a single drawer, a secret word, and a points map
// that only ever gains entries, at most one per user.
type Round struct {
	ID         string
	Name       string
	DrawerID   string
	Word       string
	UserPoints map[string]int
}

// Game holds one play session. Every field is guarded by mu; the registry
// hands the same *Game to all callers and nothing copies it.
type Game struct {
	mu        sync.Mutex
	ID        string
	Name      string
	HostID    string
	Users     []*User // join order; drawer rotation indexes into this
	Rounds    []*Round
	NumRounds int
	GameTime  time.Duration
	timer     realtime.RoundTimer
}

// NewGame creates a game hosted (and initially populated) by host.
func NewGame(name string, host *User, rounds int, gameTime time.Duration) *Game {
	return &Game{
		ID:        uuid.NewString(),
		Name:      name,
		HostID:    host.ID,
		Users:     []*User{host},
		NumRounds: rounds,
		GameTime:  gameTime,
		timer:     realtime.RoundTimer{Rounds: rounds, Duration: gameTime},
	}
}

// AddUser appends u to the participant list. Returns false if already present.
func (g *Game) AddUser(u *User) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, existing := range g.Users {
		if existing.ID == u.ID {
			return false
		}
	}
	g.Users = append(g.Users, u)
	return true
}

// RemoveUser drops the user from the participant list.
func (g *Game) RemoveUser(userID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, u := range g.Users {
		if u.ID == userID {
			g.Users = append(g.Users[:i], g.Users[i+1:]...)
			return true
		}
	}
	return false
}

// HasUser reports whether the user participates in this game.
func (g *Game) HasUser(userID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, u := range g.Users {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// IsHost reports whether userID is the game's host.
func (g *Game) IsHost(userID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return userID != "" && userID == g.HostID
}

// Rename sets the game's display name.
func (g *Game) Rename(name string) {
	g.mu.Lock()
	g.Name = name
	g.mu.Unlock()
}

// UserIDs returns a snapshot of participant ids in join order.
func (g *Game) UserIDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := make([]string, 0, len(g.Users))
	for _, u := range g.Users {
		ids = append(ids, u.ID)
	}
	return ids
}

// UsersSnapshot returns a copy of the participant list.
func (g *Game) UsersSnapshot() []*User {
	g.mu.Lock()
	defer g.mu.Unlock()
	users := make([]*User, len(g.Users))
	copy(users, g.Users)
	return users
}

// Schedule arms the round timer so the first round begins delay after now.
// Idempotent: a second host click does not reschedule.
func (g *Game) Schedule(now time.Time, delay time.Duration) {
	g.mu.Lock()
	g.timer.Schedule(now.Add(delay))
	g.mu.Unlock()
}

// NextWake returns when the round state should next advance.
func (g *Game) NextWake(now time.Time) (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.timer.NextWake(now)
}

// AdvanceResult describes what a timer tick did to the game.
type AdvanceResult int

const (
	AdvanceNone AdvanceResult = iota
	AdvanceRound
	AdvanceFinished
)

// Advance moves the round state forward if the timer says so. On a round
// transition it appends the new round: drawer chosen round-robin over the
// join-ordered user list, word supplied by pickWord. Each call does at most
// one of these; AdvanceFinished means the final round's time is up.
func (g *Game) Advance(now time.Time, pickWord func() string) AdvanceResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	advanced, finished := g.timer.Advance(now)
	if finished {
		return AdvanceFinished
	}
	if !advanced {
		return AdvanceNone
	}
	idx := len(g.Rounds)
	// Panics on an empty user list: a game must have at least one user
	// before it starts, which the start handler guarantees.
	drawer := g.Users[idx%len(g.Users)]
	g.Rounds = append(g.Rounds, &Round{
		ID:         uuid.NewString(),
		Name:       fmt.Sprintf("Round %d", idx+1),
		DrawerID:   drawer.ID,
		Word:       pickWord(),
		UserPoints: make(map[string]int),
	})
	return AdvanceRound
}

// ActiveDrawer returns the drawer of the active round, if any.
func (g *Game) ActiveDrawer() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.Rounds) == 0 {
		return "", false
	}
	return g.Rounds[len(g.Rounds)-1].DrawerID, true
}

// GuessOutcome classifies a guess evaluation.
type GuessOutcome int

const (
	// GuessIgnored covers every silent case: no active round, empty user
	// id, or a correct word from the drawer or from a user who already
	// scored this round.
	GuessIgnored GuessOutcome = iota
	GuessWrong
	GuessCorrect
)

// GuessResult is what EvaluateGuess decided and, on success, the awarded
// points plus a copy of the round's full points map for broadcasting.
type GuessResult struct {
	Outcome GuessOutcome
	Near    bool
	Points  int
	RoundID string
	Scores  map[string]int
}

// closeGuessDistance is the edit distance up to which a wrong guess is
// flagged as near the secret word.
const closeGuessDistance = 2

// EvaluateGuess scores text against the active round. startedAt is the
// round clock reading for this game; points decay linearly from 100 at the
// round's start to 0 at its end. A user scores at most once per round and
// the drawer never scores.
func (g *Game) EvaluateGuess(userID, text string, now, startedAt time.Time) GuessResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	if userID == "" || len(g.Rounds) == 0 {
		return GuessResult{}
	}
	r := g.Rounds[len(g.Rounds)-1]
	if text != r.Word {
		dist := levenshtein.ComputeDistance(strings.ToLower(text), strings.ToLower(r.Word))
		return GuessResult{Outcome: GuessWrong, Near: dist > 0 && dist <= closeGuessDistance}
	}
	if _, scored := r.UserPoints[userID]; scored {
		return GuessResult{}
	}
	if r.DrawerID == userID {
		return GuessResult{}
	}
	points := scoreFor(now.Sub(startedAt), g.GameTime)
	r.UserPoints[userID] = points
	scores := make(map[string]int, len(r.UserPoints))
	for id, p := range r.UserPoints {
		scores[id] = p
	}
	return GuessResult{Outcome: GuessCorrect, Points: points, RoundID: r.ID, Scores: scores}
}

// scoreFor maps elapsed round time to points: 100 at the start of the round
// down to 0 at its end, rounded to the nearest integer.
func scoreFor(elapsed, gameTime time.Duration) int {
	points := int(math.Round(100 * (1 - float64(elapsed)/float64(gameTime))))
	if points < 0 {
		return 0
	}
	if points > 100 {
		return 100
	}
	return points
}

// RoundView is the per-viewer projection of a round. Word is nil unless the
// viewer is the active round's drawer (past rounds keep their word), and the
// elapsed fraction is recomputed live for the active round on every call.
type RoundView struct {
	ID                          string         `json:"id"`
	Name                        string         `json:"name"`
	DrawerID                    string         `json:"drawerId"`
	Word                        *string        `json:"word"`
	UserPoints                  map[string]int `json:"userPoints"`
	PercentOfTimeInitiallySpent float64        `json:"percentOfTimeInitiallySpent"`
}

// RoundsView builds the ordered rounds projection for one viewer.
func (g *Game) RoundsView(viewerID string, startedAt, now time.Time) []RoundView {
	g.mu.Lock()
	defer g.mu.Unlock()
	views := make([]RoundView, 0, len(g.Rounds))
	for i, r := range g.Rounds {
		word := r.Word
		points := make(map[string]int, len(r.UserPoints))
		for id, p := range r.UserPoints {
			points[id] = p
		}
		v := RoundView{
			ID:         r.ID,
			Name:       r.Name,
			DrawerID:   r.DrawerID,
			Word:       &word,
			UserPoints: points,
		}
		if i == len(g.Rounds)-1 {
			if r.DrawerID != viewerID {
				v.Word = nil
			}
			if g.GameTime > 0 {
				v.PercentOfTimeInitiallySpent = float64(now.Sub(startedAt)) / float64(g.GameTime)
			}
		}
		views = append(views, v)
	}
	return views
}

// GameSummary is the registry-facing projection: participants and settings,
// no rounds and no words.
type GameSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	HostID       string `json:"hostId"`
	Users        []User `json:"users"`
	NumRounds    int    `json:"numRounds"`
	GameTimeMs   int64  `json:"gameTimeMs"`
	RoundsPlayed int    `json:"roundsPlayed"`
}

// Summary returns the game's list/lobby projection.
func (g *Game) Summary() GameSummary {
	g.mu.Lock()
	defer g.mu.Unlock()
	users := make([]User, 0, len(g.Users))
	for _, u := range g.Users {
		users = append(users, *u)
	}
	return GameSummary{
		ID:           g.ID,
		Name:         g.Name,
		HostID:       g.HostID,
		Users:        users,
		NumRounds:    g.NumRounds,
		GameTimeMs:   g.GameTime.Milliseconds(),
		RoundsPlayed: len(g.Rounds),
	}
}
