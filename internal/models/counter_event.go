package models

import "time"

// CounterEvent is a single event log entry.
type CounterEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // CYCLE_COMPLETED | RESET | START_CHANGED | TIMER_STARTED | TIMER_PAUSED
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
