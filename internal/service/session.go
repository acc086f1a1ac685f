package service

import (
	"context"
	"sync"
	"time"

	"vedic_counter/internal/counter"
	"vedic_counter/internal/logger"
	"vedic_counter/internal/metrics"
	"vedic_counter/internal/models"
	"vedic_counter/internal/repository"
)

// Session owns the live counter state. All mutations go through its mutex,
// are written through to the state store and then published on the bus.
type Session struct {
	mu    sync.Mutex
	state models.CounterState

	repo    repository.StateRepo
	bus     *Bus
	log     *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewSession(repo repository.StateRepo, bus *Bus, log *logger.Logger, m *metrics.Metrics) *Session {
	if bus == nil {
		bus = NewBus()
	}
	return &Session{
		repo:    repo,
		bus:     bus,
		log:     logger.OrNop(log),
		metrics: m,
		now:     time.Now,
	}
}

// Load replaces the in-memory state with the persisted one. A store that
// cannot be read leaves the session at defaults. Load never records a cycle.
func (s *Session) Load(ctx context.Context) models.CounterState {
	st, err := s.repo.Load(ctx)
	if err != nil {
		s.log.Warnw("counter_load_failed", "err", err)
		s.metrics.RecordStorageError("load")
		st = models.CounterState{}
	}
	st.TimerRunning = false

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	s.log.Infow("counter_loaded",
		"count", st.Count,
		"starting_number", st.StartingNumber,
		"completed_cycles", st.CompletedCycles,
		"elapsed_seconds", st.ElapsedSeconds,
	)
	return st
}

// State returns a snapshot of the current state.
func (s *Session) State() models.CounterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Apply runs t against the current state, persists the result when a stored
// field changed and publishes the produced events after the lock is released.
// Cancelling ctx does not abort the write or the delivery: memory has already
// moved on and the store must follow.
func (s *Session) Apply(ctx context.Context, t counter.Transition) (models.CounterState, []counter.Event) {
	ctx = context.WithoutCancel(ctx)
	s.mu.Lock()
	prev := s.state
	next, events := t(prev)
	s.state = next
	if persisted(prev) != persisted(next) {
		if err := s.repo.Save(ctx, next); err != nil {
			s.log.Warnw("counter_persist_failed", "err", err)
			s.metrics.RecordStorageError("save")
		}
	}
	s.stampLocked(events)
	s.mu.Unlock()

	s.bus.Publish(ctx, events...)
	return next, events
}

// Reset applies counter.Reset and erases every stored key instead of writing
// the reset values.
func (s *Session) Reset(ctx context.Context) models.CounterState {
	ctx = context.WithoutCancel(ctx)
	s.mu.Lock()
	next, events := counter.Reset(s.state)
	s.state = next
	if err := s.repo.Clear(ctx); err != nil {
		s.log.Warnw("counter_clear_failed", "err", err)
		s.metrics.RecordStorageError("clear")
	}
	s.stampLocked(events)
	s.mu.Unlock()

	s.bus.Publish(ctx, events...)
	return next
}

func (s *Session) stampLocked(events []counter.Event) {
	now := s.now().UTC()
	for i := range events {
		events[i].At = now
	}
}

// persisted drops fields that are never written to the store.
func persisted(st models.CounterState) models.CounterState {
	st.TimerRunning = false
	return st
}
