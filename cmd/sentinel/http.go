package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"solana-pool-sentinel/internal/logging"
	"solana-pool-sentinel/internal/observability"
	"solana-pool-sentinel/internal/runloop"
)

// StatusResponse is the JSON response for the /status endpoint.
type StatusResponse struct {
	Status  string               `json:"status"`
	Uptime  string               `json:"uptime"`
	Started time.Time            `json:"started"`
	Loops   []runloop.LoopStatus `json:"loops"`
}

type httpServer struct {
	srv *http.Server
	log zerolog.Logger
}

// newHTTPServer builds the health/metrics/status server.
func newHTTPServer(addr string, started time.Time, status *runloop.Status, logger zerolog.Logger) *httpServer {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", observability.Handler())

	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		resp := StatusResponse{
			Status:  "running",
			Uptime:  time.Since(started).Truncate(time.Second).String(),
			Started: started,
			Loops:   status.Snapshot(),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})

	return &httpServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: logging.Component(logger, "http"),
	}
}

func (s *httpServer) serve() {
	s.log.Info().Str("addr", s.srv.Addr).Msg("starting HTTP server")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error().Err(err).Msg("HTTP server error")
	}
}

func (s *httpServer) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.log.Warn().Err(err).Msg("HTTP server shutdown")
	}
}
