package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"scrawl/internal/game"
	"scrawl/pkg/realtime"
)

// Round count and duration bounds for new games. Out-of-range requests are
// clamped, not rejected, so the lobby form can't produce a broken game.
const (
	defaultRounds = 5
	minRounds     = 1
	maxRounds     = 10

	defaultGameTime = 60 * time.Second
	minGameTime     = 10 * time.Second
	maxGameTime     = 300 * time.Second

	maxGameNameLength = 30
)

// GameHandler owns the lobby surface: creating, joining, configuring,
// starting and deleting games, plus the per-viewer rounds projection.
type GameHandler struct {
	users  *game.Users
	store  *game.Store
	engine *game.Engine
	push   *game.Pusher
	clock  *realtime.Clock
}

func NewGameHandler(users *game.Users, store *game.Store, engine *game.Engine, push *game.Pusher, clock *realtime.Clock) *GameHandler {
	return &GameHandler{users: users, store: store, engine: engine, push: push, clock: clock}
}

func (h *GameHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/games", h.list)
	r.Post("/api/games", h.create)
	r.Route("/api/games/{id}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Delete("/", h.deleteGame)
		r.Post("/join", h.join)
		r.Post("/leave", h.leave)
		r.Post("/rename", h.rename)
		r.Post("/start", h.start)
		r.Get("/rounds/{userID}", h.rounds)
	})
}

func (h *GameHandler) list(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Summaries())
}

func (h *GameHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string `json:"name"`
		HostID          string `json:"hostId"`
		NumRounds       int    `json:"numRounds"`
		GameTimeSeconds int    `json:"gameTimeSeconds"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	host, ok := h.users.Get(req.HostID)
	if !ok {
		http.Error(w, "unknown host", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = host.Name + "'s game"
	}
	if len(name) > maxGameNameLength {
		name = name[:maxGameNameLength]
	}
	rounds := clampInt(req.NumRounds, defaultRounds, minRounds, maxRounds)
	gameTime := clampDuration(time.Duration(req.GameTimeSeconds)*time.Second, defaultGameTime, minGameTime, maxGameTime)

	g := game.NewGame(name, host, rounds, gameTime)
	h.store.Add(g)
	respondJSON(w, http.StatusCreated, g.Summary())
}

func (h *GameHandler) get(w http.ResponseWriter, r *http.Request) {
	g, ok := h.store.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	respondJSON(w, http.StatusOK, g.Summary())
}

func (h *GameHandler) join(w http.ResponseWriter, r *http.Request) {
	g, ok := h.store.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	var req struct {
		UserID string `json:"userId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	u, ok := h.users.Get(req.UserID)
	if !ok {
		http.Error(w, "unknown user", http.StatusBadRequest)
		return
	}
	if g.AddUser(u) {
		h.push.ToUsers(g.UserIDs(), game.EventGameChanged, g.Summary())
		h.push.ToAll(game.EventGameListChanged, h.store.Summaries())
	}
	respondJSON(w, http.StatusOK, g.Summary())
}

func (h *GameHandler) leave(w http.ResponseWriter, r *http.Request) {
	g, ok := h.store.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	var req struct {
		UserID string `json:"userId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if g.RemoveUser(req.UserID) {
		h.push.ToUsers(g.UserIDs(), game.EventGameChanged, g.Summary())
		h.push.ToAll(game.EventGameListChanged, h.store.Summaries())
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GameHandler) rename(w http.ResponseWriter, r *http.Request) {
	g, ok := h.store.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	var req struct {
		UserID string `json:"userId"`
		Name   string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if !g.IsHost(req.UserID) {
		http.Error(w, "host only", http.StatusForbidden)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}
	if len(name) > maxGameNameLength {
		name = name[:maxGameNameLength]
	}
	g.Rename(name)
	h.push.ToUsers(g.UserIDs(), game.EventGameChanged, g.Summary())
	h.push.ToAll(game.EventGameListChanged, h.store.Summaries())
	respondJSON(w, http.StatusOK, g.Summary())
}

func (h *GameHandler) start(w http.ResponseWriter, r *http.Request) {
	g, ok := h.store.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	var req struct {
		UserID string `json:"userId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if !g.IsHost(req.UserID) {
		http.Error(w, "host only", http.StatusForbidden)
		return
	}
	h.push.ToUsers(g.UserIDs(), game.EventGameStarted, game.GameRefPayload{GameID: g.ID})
	h.engine.StartGame(g)
	w.WriteHeader(http.StatusAccepted)
}

func (h *GameHandler) deleteGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, ok := h.store.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if !g.IsHost(r.URL.Query().Get("userId")) {
		http.Error(w, "host only", http.StatusForbidden)
		return
	}
	h.push.ToUsers(g.UserIDs(), game.EventLeaveGame, game.GameRefPayload{GameID: g.ID})
	h.store.Remove(id)
	h.clock.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *GameHandler) rounds(w http.ResponseWriter, r *http.Request) {
	g, ok := h.store.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	respondJSON(w, http.StatusOK, h.engine.RoundsView(g, chi.URLParam(r, "userID")))
}

func clampInt(v, def, min, max int) int {
	if v == 0 {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampDuration(v, def, min, max time.Duration) time.Duration {
	if v == 0 {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
