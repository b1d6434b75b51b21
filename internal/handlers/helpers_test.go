package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"scrawl/internal/game"
	"scrawl/pkg/realtime"
)

type env struct {
	srv   *httptest.Server
	users *game.Users
	store *game.Store
	clock *realtime.Clock
	dir   *realtime.Directory
}

func newTestServer(t *testing.T) *env {
	t.Helper()
	log := zerolog.Nop()
	dir := realtime.NewDirectory()
	clock := realtime.NewClock()
	users := game.NewUsers()
	store := game.NewStore()
	push := game.NewPusher(dir, log)
	engine := game.NewEngine(store, clock, push, game.DefaultWords(), log)
	evaluator := game.NewEvaluator(store, clock, push, log)
	relay := game.NewRelay(store, push, log)
	store.Watch(func() {
		push.ToAll(game.EventGameListChanged, store.Summaries())
	})

	r := chi.NewRouter()
	NewUserHandler(users).RegisterRoutes(r)
	NewGameHandler(users, store, engine, push, clock).RegisterRoutes(r)
	NewQRHandler(store, "").RegisterRoutes(r)
	NewWSHandler(dir, users, evaluator, relay, log).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &env{srv: srv, users: users, store: store, clock: clock, dir: dir}
}

func (e *env) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(e.srv.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func (e *env) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(e.srv.URL + path)
	require.NoError(t, err)
	return resp
}

func (e *env) delete(t *testing.T, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, e.srv.URL+path, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func (e *env) register(t *testing.T, name string) game.User {
	t.Helper()
	resp := e.postJSON(t, "/api/users", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var u game.User
	decodeBody(t, resp, &u)
	return u
}

func (e *env) createGame(t *testing.T, hostID string) game.GameSummary {
	t.Helper()
	resp := e.postJSON(t, "/api/games", map[string]any{"name": "test game", "hostId": hostID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var s game.GameSummary
	decodeBody(t, resp, &s)
	return s
}

func (e *env) dialWS(t *testing.T, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/ws/" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readEvent reads frames until one of the wanted type arrives.
func readEvent(t *testing.T, conn *websocket.Conn, event string) json.RawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var envl game.Envelope
		require.NoError(t, conn.ReadJSON(&envl), "waiting for %s", event)
		if envl.Type == event {
			return envl.Data
		}
	}
}
