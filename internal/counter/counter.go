// Package counter holds the pure transition rules of a counting session.
//
// Every function takes a state by value and returns the next state together with
// the events the transition produced. Nothing here performs I/O; persistence,
// timers and feedback react to the returned events.
package counter

import (
	"fmt"
	"time"

	"vedic_counter/internal/models"
)

// CycleLength is the number of counts in one completed cycle.
const CycleLength = 108

// CycleMessage is shown while a freshly completed cycle is being announced.
const CycleMessage = "1 Cycle Completed!"

// EventType names a transition outcome.
type EventType string

const (
	EventIncremented    EventType = "COUNTER_INCREMENTED"
	EventDecremented    EventType = "COUNTER_DECREMENTED"
	EventCycleCompleted EventType = "CYCLE_COMPLETED"
	EventStartChanged   EventType = "START_CHANGED"
	EventReset          EventType = "RESET"
	EventTimerStarted   EventType = "TIMER_STARTED"
	EventTimerPaused    EventType = "TIMER_PAUSED"
	EventTicked         EventType = "TIMER_TICKED"
)

// Event carries the state right after the transition that produced it.
type Event struct {
	Type  EventType
	State models.CounterState
	At    time.Time
}

// Transition is the shape shared by all reducers so callers can apply them uniformly.
type Transition func(models.CounterState) (models.CounterState, []Event)

// IsBoundary reports whether s sits on a not yet recorded cycle boundary.
// Only counts strictly above the starting number qualify.
func IsBoundary(s models.CounterState) bool {
	delta := s.Count - s.StartingNumber
	return delta > 0 && delta%CycleLength == 0 && s.Count != s.LastCycleCount
}

// Increment adds one and records a cycle when a boundary is crossed.
func Increment(s models.CounterState) (models.CounterState, []Event) {
	s.Count++
	events := []Event{{Type: EventIncremented}}
	if IsBoundary(s) {
		s.CompletedCycles++
		s.LastCycleCount = s.Count
		events = append(events, Event{Type: EventCycleCompleted})
	}
	return s, stamp(s, events)
}

// Decrement subtracts one. At zero it is a no-op and produces no events.
func Decrement(s models.CounterState) (models.CounterState, []Event) {
	if s.Count <= 0 {
		return s, nil
	}
	s.Count--
	return s, stamp(s, []Event{{Type: EventDecremented}})
}

// SetStartingNumber moves the baseline. Counting restarts from n and prior
// cycle accounting is dropped. Negative values are clamped to zero.
func SetStartingNumber(n int) Transition {
	return func(s models.CounterState) (models.CounterState, []Event) {
		if n < 0 {
			n = 0
		}
		s.StartingNumber = n
		s.Count = n
		s.CompletedCycles = 0
		s.LastCycleCount = 0
		return s, stamp(s, []Event{{Type: EventStartChanged}})
	}
}

// Reset returns to the starting number and clears cycles and timer.
func Reset(s models.CounterState) (models.CounterState, []Event) {
	s = models.CounterState{
		Count:          s.StartingNumber,
		StartingNumber: s.StartingNumber,
	}
	return s, stamp(s, []Event{{Type: EventReset}})
}

// StartTimer moves the timer to RUNNING. Already running is a no-op.
func StartTimer(s models.CounterState) (models.CounterState, []Event) {
	if s.TimerRunning {
		return s, nil
	}
	s.TimerRunning = true
	return s, stamp(s, []Event{{Type: EventTimerStarted}})
}

// PauseTimer moves the timer to STOPPED. Already stopped is a no-op.
func PauseTimer(s models.CounterState) (models.CounterState, []Event) {
	if !s.TimerRunning {
		return s, nil
	}
	s.TimerRunning = false
	return s, stamp(s, []Event{{Type: EventTimerPaused}})
}

// Tick adds one elapsed second while the timer is running.
func Tick(s models.CounterState) (models.CounterState, []Event) {
	if !s.TimerRunning {
		return s, nil
	}
	s.ElapsedSeconds++
	return s, stamp(s, []Event{{Type: EventTicked}})
}

// FormatElapsed renders seconds as MM:SS. Minutes are not capped.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// View derives the render model from a state.
func View(s models.CounterState) models.CounterView {
	return models.CounterView{
		CounterState: s,
		Elapsed:      FormatElapsed(s.ElapsedSeconds),
		CycleLength:  CycleLength,
	}
}

func stamp(s models.CounterState, events []Event) []Event {
	for i := range events {
		events[i].State = s
	}
	return events
}
