package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"scrawl/internal/game"
	"scrawl/internal/handlers"
	"scrawl/pkg/realtime"
)

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}

func serve(ctx context.Context, cfg *Config) error {
	log := newLogger(cfg.verbose)

	dir := realtime.NewDirectory()
	clock := realtime.NewClock()
	users := game.NewUsers()
	store := game.NewStore()
	push := game.NewPusher(dir, log)
	engine := game.NewEngine(store, clock, push, game.DefaultWords(), log)
	evaluator := game.NewEvaluator(store, clock, push, log)
	relay := game.NewRelay(store, push, log)

	// Every registry change refreshes the lobby list on all connections.
	store.Watch(func() {
		push.ToAll(game.EventGameListChanged, store.Summaries())
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// No global timeout middleware: websocket connections are long-lived.

	handlers.NewUserHandler(users).RegisterRoutes(r)
	handlers.NewGameHandler(users, store, engine, push, clock).RegisterRoutes(r)
	handlers.NewQRHandler(store, cfg.baseURL).RegisterRoutes(r)
	handlers.NewWSHandler(dir, users, evaluator, relay, log).RegisterRoutes(r)

	handler := http.Handler(r)
	if cfg.prefix != "" {
		outer := chi.NewRouter()
		outer.Mount(cfg.prefix, r)
		handler = outer
	}

	addr := net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port))
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		var err error
		if cfg.tlsCert != "" {
			err = server.ListenAndServeTLS(cfg.tlsCert, cfg.tlsKey)
		} else {
			err = server.ListenAndServe()
		}
		errCh <- err
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
