package service

import (
	"context"
	"testing"

	"vedic_counter/internal/counter"
)

func increments(t *testing.T, env *testEnv, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if _, err := env.svc.Increment(context.Background()); err != nil {
			t.Fatalf("Increment: %v", err)
		}
	}
}

func TestCounterService_FirstCycleFromZero(t *testing.T) {
	env := newTestEnv(0)
	increments(t, env, 107)

	view, _ := env.svc.GetState(context.Background())
	if view.CompletedCycles != 0 || view.ShowCycleMessage {
		t.Fatalf("no cycle before 108, got %+v", view)
	}

	view, err := env.svc.Increment(context.Background())
	if err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if view.Count != 108 || view.CompletedCycles != 1 || view.LastCycleCount != 108 {
		t.Fatalf("after 108 increments: %+v", view)
	}
	if !view.ShowCycleMessage || view.CycleMessage != counter.CycleMessage {
		t.Fatalf("cycle message not shown: %+v", view)
	}
	if !env.defer_.has(messageClearKey) {
		t.Fatalf("message clear must be scheduled")
	}

	env.defer_.fire(messageClearKey)
	view, _ = env.svc.GetState(context.Background())
	if view.ShowCycleMessage || view.CycleMessage != "" {
		t.Fatalf("message must clear after the TTL fires: %+v", view)
	}
}

func TestCounterService_CyclesCountFromStartingNumber(t *testing.T) {
	env := newTestEnv(0)
	view, err := env.svc.SetStartingNumber(context.Background(), "50")
	if err != nil {
		t.Fatalf("SetStartingNumber: %v", err)
	}
	if view.Count != 50 || view.StartingNumber != 50 {
		t.Fatalf("after start=50: %+v", view)
	}

	increments(t, env, 108)
	view, _ = env.svc.GetState(context.Background())
	if view.Count != 158 || view.CompletedCycles != 1 || view.LastCycleCount != 158 {
		t.Fatalf("after 108 increments from 50: %+v", view)
	}
}

func TestCounterService_OscillationAtBoundaryDoesNotRefire(t *testing.T) {
	env := newTestEnv(0)
	increments(t, env, 108)

	if _, changed, _ := env.svc.Decrement(context.Background()); !changed {
		t.Fatalf("decrement from 108 must change the count")
	}
	increments(t, env, 1)

	view, _ := env.svc.GetState(context.Background())
	if view.Count != 108 || view.CompletedCycles != 1 {
		t.Fatalf("cycle must not be counted twice: %+v", view)
	}
}

func TestCounterService_DecrementAtZeroIsNoop(t *testing.T) {
	env := newTestEnv(0)

	view, changed, err := env.svc.Decrement(context.Background())
	if err != nil {
		t.Fatalf("Decrement: %v", err)
	}
	if changed || view.Count != 0 {
		t.Fatalf("Decrement at zero: changed=%v view=%+v", changed, view)
	}
	if env.state.saveCount() != 0 {
		t.Fatalf("no write expected, saves=%d", env.state.saveCount())
	}
}

func TestCounterService_NonNumericStartIsZero(t *testing.T) {
	env := newTestEnv(0)
	increments(t, env, 5)

	view, _ := env.svc.SetStartingNumber(context.Background(), "abc")
	if view.StartingNumber != 0 || view.Count != 0 {
		t.Fatalf("non-numeric start: %+v", view)
	}
}

func TestCounterService_IncrementAutoStartsTimer(t *testing.T) {
	env := newTestEnv(0)

	view, _ := env.svc.Increment(context.Background())
	if !view.TimerRunning {
		t.Fatalf("first increment must start the timer: %+v", view)
	}
	timer := env.svc.Timer.(*TimerService)
	if !timer.Running() {
		t.Fatalf("ticker must be running after auto-start")
	}
	t.Cleanup(timer.stopTicker)
}

func TestCounterService_ResetRequiresConfirmation(t *testing.T) {
	env := newTestEnv(0)
	env.svc.SetStartingNumber(context.Background(), "7")
	increments(t, env, 108)

	view, done, err := env.svc.Reset(context.Background(), false)
	if err != nil || done {
		t.Fatalf("unconfirmed Reset: done=%v err=%v", done, err)
	}
	if view.Count != 115 || view.CompletedCycles != 1 || !view.TimerRunning {
		t.Fatalf("unconfirmed reset must not change anything: %+v", view)
	}
	if env.state.clears != 0 {
		t.Fatalf("unconfirmed reset must not touch the store")
	}

	view, done, err = env.svc.Reset(context.Background(), true)
	if err != nil || !done {
		t.Fatalf("confirmed Reset: done=%v err=%v", done, err)
	}
	if view.Count != 7 || view.StartingNumber != 7 || view.CompletedCycles != 0 ||
		view.LastCycleCount != 0 || view.ElapsedSeconds != 0 || view.TimerRunning {
		t.Fatalf("after reset: %+v", view)
	}
	if view.ShowCycleMessage {
		t.Fatalf("reset must hide the cycle message")
	}
	if env.defer_.has(messageClearKey) {
		t.Fatalf("reset must cancel the pending message clear")
	}
	if env.state.clears != 1 {
		t.Fatalf("clears = %d, want 1", env.state.clears)
	}
	if env.svc.Timer.(*TimerService).Running() {
		t.Fatalf("reset must stop the ticker")
	}

	loaded, _ := env.state.Load(context.Background())
	if loaded.Count != 0 || loaded.StartingNumber != 0 {
		t.Fatalf("reload after reset = %+v, want defaults", loaded)
	}
}

func TestCounterService_RecordsNotableEvents(t *testing.T) {
	env := newTestEnv(0)
	env.svc.SetStartingNumber(context.Background(), "0")
	increments(t, env, 108)
	env.svc.Pause(context.Background())
	env.svc.Reset(context.Background(), true)

	got := env.events.appendedTypes()
	want := []string{"START_CHANGED", "TIMER_STARTED", "CYCLE_COMPLETED", "TIMER_PAUSED", "RESET"}
	if len(got) != len(want) {
		t.Fatalf("recorded %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("recorded %v, want %v", got, want)
		}
	}
}

func TestCounterService_CanceledContext(t *testing.T) {
	env := newTestEnv(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := env.svc.Increment(ctx); err == nil {
		t.Fatalf("expected context error")
	}
	if env.svc.Session.State().Count != 0 {
		t.Fatalf("canceled call must not mutate state")
	}
}
