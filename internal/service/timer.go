package service

import (
	"context"
	"sync"
	"time"

	"vedic_counter/internal/counter"
	"vedic_counter/internal/logger"
	"vedic_counter/internal/models"
)

const defaultTimerTick = time.Second

// TimerService drives the elapsed-seconds ticker. Exactly one ticker goroutine
// runs per RUNNING period.
type TimerService struct {
	session *Session
	viewer  stateViewer
	tick    time.Duration
	log     *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewTimerService(session *Session, viewer stateViewer, tick time.Duration, log *logger.Logger) *TimerService {
	if tick <= 0 {
		tick = defaultTimerTick
	}
	return &TimerService{
		session: session,
		viewer:  viewer,
		tick:    tick,
		log:     logger.OrNop(log),
	}
}

// Resume moves the timer to RUNNING.
func (t *TimerService) Resume(ctx context.Context) (models.CounterView, error) {
	if err := ctx.Err(); err != nil {
		return models.CounterView{}, err
	}
	t.session.Apply(ctx, counter.StartTimer)
	return t.viewer.View(t.session.State()), nil
}

// Pause moves the timer to STOPPED. Elapsed time is kept.
func (t *TimerService) Pause(ctx context.Context) (models.CounterView, error) {
	if err := ctx.Err(); err != nil {
		return models.CounterView{}, err
	}
	t.session.Apply(ctx, counter.PauseTimer)
	return t.viewer.View(t.session.State()), nil
}

// Run blocks until ctx is canceled, then stops the ticker and the timer.
func (t *TimerService) Run(ctx context.Context) {
	<-ctx.Done()
	t.session.Apply(context.Background(), counter.PauseTimer)
	t.stopTicker()
}

// HandleEvent reacts to session events. Subscribe it to the bus.
func (t *TimerService) HandleEvent(ctx context.Context, ev counter.Event) {
	switch ev.Type {
	case counter.EventIncremented:
		if !ev.State.TimerRunning {
			t.session.Apply(ctx, counter.StartTimer)
		}
	case counter.EventTimerStarted, counter.EventTimerPaused, counter.EventReset:
		t.syncTicker()
	}
}

// Running reports whether a ticker goroutine is active.
func (t *TimerService) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

// syncTicker makes the ticker match the current session state. Events from
// concurrent transitions may arrive out of order, so the event itself is not
// trusted; whichever call takes t.mu last sees the final state.
func (t *TimerService) syncTicker() {
	t.mu.Lock()
	defer t.mu.Unlock()
	running := t.session.State().TimerRunning
	switch {
	case running && t.cancel == nil:
		t.startLocked()
	case !running && t.cancel != nil:
		t.stopLocked()
	}
}

// stopTicker stops the ticker regardless of state.
func (t *TimerService) stopTicker() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *TimerService) startLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done
	go t.loop(ctx, done)
	t.log.Debugw("timer_ticker_started", "tick", t.tick)
}

// stopLocked cancels the ticker and waits for it to exit. The loop never
// takes t.mu, so waiting here cannot deadlock.
func (t *TimerService) stopLocked() {
	if t.cancel == nil {
		return
	}
	t.cancel()
	<-t.done
	t.cancel, t.done = nil, nil
	t.log.Debugw("timer_ticker_stopped")
}

func (t *TimerService) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	tk := time.NewTicker(t.tick)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			// a tick after the state left RUNNING is a no-op
			t.session.Apply(ctx, counter.Tick)
		}
	}
}
