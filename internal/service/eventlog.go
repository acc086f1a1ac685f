package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"vedic_counter/internal/counter"
	"vedic_counter/internal/logger"
	"vedic_counter/internal/metrics"
	"vedic_counter/internal/models"
	"vedic_counter/internal/repository"
)

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "CYCLE_COMPLETED", "RESET", "START_CHANGED", "TIMER_STARTED", "TIMER_PAUSED"
}

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	return from, to, normalizeEventType(f.Type), nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.CounterEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, from, to, typ)
}

// EventRecorder appends the notable session events to the event log.
// Increments, decrements and ticks are too frequent to keep.
type EventRecorder struct {
	eventRepo repository.EventRepo
	log       *logger.Logger
	metrics   *metrics.Metrics
}

func NewEventRecorder(eventRepo repository.EventRepo, log *logger.Logger, m *metrics.Metrics) *EventRecorder {
	return &EventRecorder{eventRepo: eventRepo, log: logger.OrNop(log), metrics: m}
}

var recordedDescriptions = map[counter.EventType]string{
	counter.EventCycleCompleted: "Cycle of 108 completed",
	counter.EventReset:          "Counter and timer reset",
	counter.EventStartChanged:   "Starting number changed",
	counter.EventTimerStarted:   "Timer started",
	counter.EventTimerPaused:    "Timer paused",
}

// HandleEvent records ev when its type is kept in the log. Subscribe it to the bus.
func (r *EventRecorder) HandleEvent(ctx context.Context, ev counter.Event) {
	desc, ok := recordedDescriptions[ev.Type]
	if !ok {
		return
	}
	meta := map[string]any{
		"count":            ev.State.Count,
		"starting_number":  ev.State.StartingNumber,
		"completed_cycles": ev.State.CompletedCycles,
		"elapsed_seconds":  ev.State.ElapsedSeconds,
	}
	// who reset or moved the baseline; absent for timer-driven events
	if a, ok := ActorFrom(ctx); ok {
		meta["user_id"] = a.UserID
		meta["username"] = a.Username
	}
	err := r.eventRepo.Append(ctx, models.CounterEvent{
		OccurredAt:  ev.At,
		Type:        string(ev.Type),
		Description: desc,
		Metadata:    meta,
	})
	if err != nil {
		r.log.Warnw("event_append_failed", "type", ev.Type, "err", err)
		r.metrics.RecordStorageError("event_append")
	}
}
