package service

import (
	"context"
	"sync"
	"time"

	"vedic_counter/internal/models"
	"vedic_counter/internal/repository"
)

// fakeStateRepo is an in-memory repository.StateRepo that records calls.
type fakeStateRepo struct {
	mu      sync.Mutex
	stored  *models.CounterState
	saves   []models.CounterState
	clears  int
	loadErr error
	saveErr error

	// checkCtx makes Save and Clear fail like a real driver on a done context.
	checkCtx bool
	rejected int
}

func (f *fakeStateRepo) Save(ctx context.Context, s models.CounterState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.checkCtx && ctx.Err() != nil {
		f.rejected++
		return ctx.Err()
	}
	f.saves = append(f.saves, s)
	if f.saveErr != nil {
		return f.saveErr
	}
	s.TimerRunning = false
	f.stored = &s
	return nil
}

func (f *fakeStateRepo) Load(ctx context.Context) (models.CounterState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return models.CounterState{}, f.loadErr
	}
	if f.stored == nil {
		return models.CounterState{}, nil
	}
	return *f.stored, nil
}

func (f *fakeStateRepo) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.checkCtx && ctx.Err() != nil {
		f.rejected++
		return ctx.Err()
	}
	f.clears++
	f.stored = nil
	return nil
}

func (f *fakeStateRepo) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *fakeStateRepo) lastSaved() (models.CounterState, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saves) == 0 {
		return models.CounterState{}, false
	}
	return f.saves[len(f.saves)-1], true
}

// fakeDeferrer keeps scheduled callbacks until the test fires them.
type fakeDeferrer struct {
	mu        sync.Mutex
	pending   map[string]func()
	delays    map[string]time.Duration
	replaced  int
	cancelled int
}

func newFakeDeferrer() *fakeDeferrer {
	return &fakeDeferrer{pending: map[string]func(){}, delays: map[string]time.Duration{}}
}

func (f *fakeDeferrer) Replace(key string, delay time.Duration, fn func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaced++
	f.pending[key] = fn
	f.delays[key] = delay
	return nil
}

func (f *fakeDeferrer) Cancel(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled++
	delete(f.pending, key)
}

// fire runs the pending callback for key and reports whether there was one.
func (f *fakeDeferrer) fire(key string) bool {
	f.mu.Lock()
	fn, ok := f.pending[key]
	delete(f.pending, key)
	f.mu.Unlock()
	if ok {
		fn()
	}
	return ok
}

func (f *fakeDeferrer) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.pending[key]
	return ok
}

type testEnv struct {
	svc    *Service
	state  *fakeStateRepo
	events *fakeEventRepo
	defer_ *fakeDeferrer
	hub    *Hub
}

// newTestEnv wires a Service over fakes. The ticker is slow enough to never
// fire unless a test passes its own tick.
func newTestEnv(tick time.Duration) *testEnv {
	if tick <= 0 {
		tick = time.Hour
	}
	env := &testEnv{
		state:  &fakeStateRepo{},
		events: &fakeEventRepo{},
		defer_: newFakeDeferrer(),
		hub:    NewHub(4),
	}
	env.svc = NewService(&repository.Repository{
		StateRepo: env.state,
		EventRepo: env.events,
		Auth:      &mockAuthRepo{},
	}, Deps{
		Scheduler: env.defer_,
		Hub:       env.hub,
		TimerTick: tick,
		Auth:      testAuthConfig,
	})
	return env
}
