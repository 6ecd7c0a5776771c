package network

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/VirtualPets/internal/events"
	"github.com/MRamiBalles/VirtualPets/internal/game"
	"github.com/MRamiBalles/VirtualPets/internal/infra/storage"
	"github.com/MRamiBalles/VirtualPets/internal/platform/logger"
	"github.com/MRamiBalles/VirtualPets/internal/platform/metrics"
)

// StatusSource exposes the game currently being played.
type StatusSource interface {
	Snapshot() (game.Snapshot, bool)
}

// JournalReader reads back the on-disk journal.
type JournalReader interface {
	Recap(ctx context.Context, sessionID string) ([]storage.RecapEvent, error)
	Graveyard(ctx context.Context, limit int) ([]storage.PetRecord, error)
}

// Options configures a Server. Status, EventLog and Hub are required;
// Journal and Metrics may be nil.
type Options struct {
	Status   StatusSource
	EventLog *events.EventLog
	Hub      *Hub
	Journal  JournalReader
	Metrics  *metrics.Collector
	Logger   *logger.Logger
}

// Server is the read-only HTTP and WebSocket status surface.
type Server struct {
	status   StatusSource
	eventLog *events.EventLog
	hub      *Hub
	journal  JournalReader
	metrics  *metrics.Collector
	logger   *logger.Logger
	upgrader websocket.Upgrader
}

// NewServer builds a Server from opts.
func NewServer(opts Options) *Server {
	s := &Server{
		status:   opts.Status,
		eventLog: opts.EventLog,
		hub:      opts.Hub,
		journal:  opts.Journal,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Local spectator pages are served from anywhere.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	if s.metrics == nil {
		s.metrics = metrics.NewCollector()
	}
	if s.logger == nil {
		s.logger = logger.Discard()
	}
	return s
}

// Router returns the HTTP handler with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/metrics", s.metrics.Handler())
	r.Get("/metrics/prometheus", s.metrics.PrometheusHandler())
	r.Get("/session", s.handleSession)
	r.Get("/sessions/{sessionID}/history", s.handleHistory)
	r.Get("/sessions/{sessionID}/recap", s.handleRecap)
	r.Get("/graveyard", s.handleGraveyard)
	r.Get("/ws", s.handleWS)
	return r
}

// handleSession returns the current session, or 404 while pets are still
// being adopted.
func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.status.Snapshot()
	if !ok {
		jsonError(w, "No game in progress", http.StatusNotFound)
		return
	}
	jsonSuccess(w, snap)
}

func (s *Server) handleRecap(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		jsonError(w, "Journal disabled", http.StatusNotFound)
		return
	}
	sessionID := chi.URLParam(r, "sessionID")
	recap, err := s.journal.Recap(r.Context(), sessionID)
	if err != nil {
		s.logger.Error("Recap failed for session " + sessionID + ": " + err.Error())
		jsonError(w, "Journal unavailable", http.StatusInternalServerError)
		return
	}
	if len(recap) == 0 {
		jsonError(w, "Unknown session", http.StatusNotFound)
		return
	}
	jsonSuccess(w, map[string]interface{}{
		"session_id": sessionID,
		"events":     recap,
	})
}

func (s *Server) handleGraveyard(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		jsonError(w, "Journal disabled", http.StatusNotFound)
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	pets, err := s.journal.Graveyard(r.Context(), limit)
	if err != nil {
		s.logger.Error("Graveyard query failed: " + err.Error())
		jsonError(w, "Journal unavailable", http.StatusInternalServerError)
		return
	}
	if pets == nil {
		pets = []storage.PetRecord{}
	}
	jsonSuccess(w, map[string]interface{}{"pets": pets})
}

// handleWS upgrades a spectator. The first message is the current
// session snapshot, if any; game events follow as they happen.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.metrics.RecordWSError()
		s.logger.Warn("WebSocket upgrade failed: " + err.Error())
		return
	}

	client := NewClient(s.hub, conn)
	if snap, ok := s.status.Snapshot(); ok {
		if hello, err := json.Marshal(map[string]interface{}{"type": "SNAPSHOT", "session": snap}); err == nil {
			client.send <- hello
		}
	}
	if !client.Register() {
		conn.Close()
		return
	}
	go client.WritePump()
	go client.ReadPump()
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln, nil)
}

// Serve serves on ln until ctx is cancelled. ready, if not nil, is called
// with the bound address before the first request is accepted.
func (s *Server) Serve(ctx context.Context, ln net.Listener, ready func(net.Addr)) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("Status server listening on " + ln.Addr().String())
	if ready != nil {
		ready(ln.Addr())
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
