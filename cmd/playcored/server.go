// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/nordav/playcore/internal/player"
)

// server exposes the observability surface of the running session.
type server struct {
	http   *http.Server
	logger zerolog.Logger
}

func newServer(addr string, p *player.Player, logger zerolog.Logger) *server {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httprate.LimitByIP(100, time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	r.Get("/state", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			SessionID string `json:"sessionId"`
			Stage     string `json:"stage"`
			State     any    `json:"state"`
		}{
			SessionID: p.SessionID(),
			Stage:     p.Stage().String(),
			State:     p.Snapshot(),
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return &server{
		http: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// run serves until the context is cancelled, then shuts down gracefully.
func (s *server) run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("event", "http.listening").
			Str("addr", s.http.Addr).
			Msg("http server listening")
		if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}
