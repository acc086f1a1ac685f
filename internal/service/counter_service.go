package service

import (
	"context"

	"vedic_counter/internal/counter"
	"vedic_counter/internal/models"
)

type CounterService struct {
	session *Session
	viewer  stateViewer
}

func NewCounterService(session *Session, viewer stateViewer) *CounterService {
	return &CounterService{session: session, viewer: viewer}
}

// Increment adds one. Crossing a cycle boundary is announced through the bus.
func (s *CounterService) Increment(ctx context.Context) (models.CounterView, error) {
	if err := ctx.Err(); err != nil {
		return models.CounterView{}, err
	}
	s.session.Apply(ctx, counter.Increment)
	return s.current(), nil
}

// Decrement subtracts one. changed is false when the count was already zero.
func (s *CounterService) Decrement(ctx context.Context) (view models.CounterView, changed bool, err error) {
	if err := ctx.Err(); err != nil {
		return models.CounterView{}, false, err
	}
	_, events := s.session.Apply(ctx, counter.Decrement)
	return s.current(), len(events) > 0, nil
}

// SetStartingNumber parses raw like a lenient integer input field and restarts
// counting from it.
func (s *CounterService) SetStartingNumber(ctx context.Context, raw string) (models.CounterView, error) {
	if err := ctx.Err(); err != nil {
		return models.CounterView{}, err
	}
	n := counter.ParseStartingNumber(raw)
	s.session.Apply(ctx, counter.SetStartingNumber(n))
	return s.current(), nil
}

// Reset returns to the starting number and clears cycles, timer and stored
// keys. Without confirmation nothing happens and done is false.
func (s *CounterService) Reset(ctx context.Context, confirmed bool) (view models.CounterView, done bool, err error) {
	if err := ctx.Err(); err != nil {
		return models.CounterView{}, false, err
	}
	if !confirmed {
		return s.current(), false, nil
	}
	s.session.Reset(ctx)
	return s.current(), true, nil
}

// current renders the state after bus subscribers (timer auto-start,
// feedback) have reacted.
func (s *CounterService) current() models.CounterView {
	return s.viewer.View(s.session.State())
}
