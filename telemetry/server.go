package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/itzKiwiSky/KAPLAYware-sub000/ware"
)

type Command string

const (
	CmdSkip    Command = "skip"
	CmdRestart Command = "restart"
	CmdPause   Command = "pause"
	CmdResume  Command = "resume"
)

// Controls is the part of the engine debug commands drive.
type Controls interface {
	SkipRound()
	RestartRound()
	SetPaused(p bool)
}

var ErrQueueFull = errors.New("telemetry: command queue full")

// Server exposes the session over HTTP. Handlers never touch the engine:
// state comes from the last published snapshot and commands wait in a queue
// for Apply.
type Server struct {
	metrics *Metrics
	log     zerolog.Logger

	mu   sync.RWMutex
	snap ware.Snapshot

	cmds chan Command
	http *http.Server
}

func NewServer(addr string, m *Metrics, log zerolog.Logger) *Server {
	s := &Server{
		metrics: m,
		log:     log,
		cmds:    make(chan Command, 8),
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/state", s.handleState)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	r.Route("/debug", func(r chi.Router) {
		r.Post("/{cmd}", s.handleCommand)
	})
	return r
}

// Publish stores the snapshot served by /state. Call it from the game thread.
func (s *Server) Publish(snap ware.Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

// Enqueue queues cmd without blocking.
func (s *Server) Enqueue(cmd Command) error {
	select {
	case s.cmds <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

// Apply runs every queued command against c. Call it from the game thread.
func (s *Server) Apply(c Controls) {
	for {
		select {
		case cmd := <-s.cmds:
			s.log.Info().Str("command", string(cmd)).Msg("debug command")
			switch cmd {
			case CmdSkip:
				c.SkipRound()
			case CmdRestart:
				c.RestartRound()
			case CmdPause:
				c.SetPaused(true)
			case CmdResume:
				c.SetPaused(false)
			}
		default:
			return
		}
	}
}

func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("telemetry listening")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	cmd := Command(chi.URLParam(r, "cmd"))
	switch cmd {
	case CmdSkip, CmdRestart, CmdPause, CmdResume:
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown command"})
		return
	}
	if err := s.Enqueue(cmd); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"queued": string(cmd)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
