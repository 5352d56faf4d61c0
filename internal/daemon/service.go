// Package daemon provides the long-running check-in scheduler and its HTTP
// API. A cron entry fires the nightly prompt at the configured check-in
// time; a ticker sweeps pending transitions so auto-fills apply once the
// confirm window lapses, including after a restart.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/rsinha/cashguard/internal/checkin"
	"github.com/rsinha/cashguard/internal/cycle"
	"github.com/rsinha/cashguard/internal/model"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	Interval     time.Duration
	EventsBuffer int
}

// Event is emitted for every check-in transition the daemon applies.
type Event struct {
	ID        int64                 `json:"id"`
	Type      string                `json:"type"` // checkin_prompt | checkin_autofill
	Timestamp time.Time             `json:"timestamp"`
	Date      string                `json:"date"`
	Snapshot  *model.StatusSnapshot `json:"snapshot,omitempty"`
}

// Status is served at /v1/daemon.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastTickAt      time.Time `json:"last_tick_at"`
	TickIntervalSec int       `json:"tick_interval_sec"`
	TickCount       int64     `json:"tick_count"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service runs the scheduler loop and HTTP API over one cycle manager.
type Service struct {
	cfg Config
	mgr *cycle.Manager
	log *logrus.Logger
	now func() time.Time

	mu          sync.RWMutex
	startedAt   time.Time
	lastTickAt  time.Time
	tickCount   int64
	lastError   string
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a daemon service over the given manager.
func New(cfg Config, mgr *cycle.Manager, log *logrus.Logger) *Service {
	if cfg.Interval < time.Second {
		cfg.Interval = time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8764"
	}

	return &Service{
		cfg:       cfg,
		mgr:       mgr,
		log:       log,
		now:       time.Now,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run starts the HTTP API, the nightly cron entry, and the sweep ticker,
// blocking until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/v1/status", s.handleStatus).Methods(http.MethodGet)
	router.HandleFunc("/v1/daemon", s.handleDaemon).Methods(http.MethodGet)
	router.HandleFunc("/v1/events", s.handleEvents).Methods(http.MethodGet)
	router.HandleFunc("/v1/stream", s.handleStream).Methods(http.MethodGet)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	scheduler, err := s.startCron()
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	// Sweep once on startup so anything missed while down applies now.
	s.tick()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.log.WithFields(logrus.Fields{
		"addr":     s.cfg.Addr,
		"interval": s.cfg.Interval.String(),
	}).Info("daemon started")

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.tick()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// startCron registers the nightly prompt at the configured check-in time in
// the configured timezone. The ticker alone would catch it within one
// interval; cron makes the prompt land on the minute.
func (s *Service) startCron() (*cron.Cron, error) {
	cfg := s.mgr.Config()
	loc, err := cfg.Cycle.Location()
	if err != nil {
		return nil, err
	}
	hour, minute, err := cfg.Cycle.CheckinClock()
	if err != nil {
		return nil, err
	}

	scheduler := cron.New(cron.WithLocation(loc))
	if _, err := scheduler.AddFunc(fmt.Sprintf("%d %d * * *", minute, hour), s.tick); err != nil {
		return nil, fmt.Errorf("scheduling check-in: %w", err)
	}
	scheduler.Start()
	return scheduler, nil
}

// tick applies all due check-in transitions and publishes one event per
// applied transition.
func (s *Service) tick() {
	now := s.now()
	applied, err := s.mgr.ApplyDue(now)

	s.mu.Lock()
	s.lastTickAt = now
	s.tickCount++
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.log.WithError(err).Error("check-in sweep failed")
		return
	}

	for _, tr := range applied {
		ev := Event{
			Timestamp: now,
			Date:      model.DateKey(tr.Date),
		}
		switch tr.Kind {
		case checkin.KindIssuePrompt:
			ev.Type = "checkin_prompt"
		case checkin.KindAutoFill:
			ev.Type = "checkin_autofill"
		}
		if snap, serr := s.mgr.Status(now); serr == nil {
			ev.Snapshot = &snap
		}
		s.publishEvent(ev)
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) daemonStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastTickAt:      s.lastTickAt,
		TickIntervalSec: int(s.cfg.Interval.Seconds()),
		TickCount:       s.tickCount,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// handleStatus serves the budgeting snapshot for today.
func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	snap, err := s.mgr.Status(s.now())
	if err != nil {
		if errors.Is(err, model.ErrNoActiveCycle) {
			http.Error(w, "no active cycle", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}

func (s *Service) handleDaemon(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.daemonStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send the current snapshot immediately so clients render without
	// waiting for the next transition.
	if snap, err := s.mgr.Status(s.now()); err == nil {
		writeSSE(w, Event{
			Type:      "snapshot",
			Timestamp: s.now(),
			Date:      model.DateKey(snap.AsOf),
			Snapshot:  &snap,
		})
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
