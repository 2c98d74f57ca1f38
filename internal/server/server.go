// Package server exposes the ledger over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Flyrell/checkin/internal/calendar"
	"github.com/Flyrell/checkin/internal/config"
	"github.com/Flyrell/checkin/internal/ledger"
	"github.com/Flyrell/checkin/internal/log"
	"github.com/Flyrell/checkin/internal/report"
	"github.com/Flyrell/checkin/internal/store"
)

// Server is the checkin HTTP API server.
type Server struct {
	store   store.Store
	cfg     *config.Config
	now     func() time.Time
	logger  *slog.Logger
	metrics *Metrics

	// mu serializes load-modify-save cycles.
	mu sync.Mutex
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides the clock used for "today".
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics enables the /metrics endpoint.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// New creates a server over st using the rules and names from cfg.
func New(st store.Store, cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		store:  st,
		cfg:    cfg,
		now:    time.Now,
		logger: log.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/ledger", s.handleLedger)
		r.Get("/summary", s.handleSummary)
		r.Post("/checkins", s.handleCheckIn)
		r.Post("/reset", s.handleReset)
	})

	if s.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}

	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type checkInRequest struct {
	Party string `json:"party"`
	Date  string `json:"date"`
}

type checkInResponse struct {
	Event  ledger.Event `json:"event"`
	Points int          `json:"points"`
	Ledger ledger.State `json:"ledger"`
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.store.Load(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.metrics.observeState(st)
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.store.Load(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Summarize(st, s.cfg, s.now()))
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	party, err := ledger.ParseParty(req.Party, s.cfg.Names())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := s.now()
	date := calendar.Today(now)
	if req.Date != "" {
		date, err = calendar.ParseDate(req.Date, now)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rules := s.cfg.Rules()
	var event ledger.Event
	st, err := store.Update(r.Context(), s.store, func(st ledger.State) (ledger.State, error) {
		var next ledger.State
		next, event = rules.RecordCheckIn(st, party, date)
		return next, nil
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.metrics.observeCheckIn(event)
	s.metrics.observeState(st)
	s.logger.Info("check-in recorded",
		"party", party,
		"date", calendar.Format(event.Date),
		"points", event.Points,
		"birthday", event.IsBirthday,
		"request_id", middleware.GetReqID(r.Context()),
	)

	writeJSON(w, http.StatusCreated, checkInResponse{Event: event, Points: event.Points, Ledger: st})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := store.Reset(r.Context(), s.store)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.metrics.observeReset()
	s.metrics.observeState(st)
	s.logger.Info("ledger reset", "request_id", middleware.GetReqID(r.Context()))

	writeJSON(w, http.StatusOK, st)
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrCorrupt) {
		s.logger.Error("ledger data is corrupt", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": map[string]any{
				"message": err.Error(),
				"type":    "corrupt",
				"hint":    "POST /api/reset to start over",
			},
		})
		return
	}
	s.logger.Error("storage failure", "err", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    "error",
		},
	})
}
