package service

import (
	"context"
	"testing"
	"time"

	"vedic_counter/internal/counter"
	"vedic_counter/internal/models"
)

// stubViewer renders without feedback flags and counts calls.
type stubViewer struct {
	calls int
	show  bool
}

func (v *stubViewer) View(s models.CounterState) models.CounterView {
	v.calls++
	out := counter.View(s)
	out.ShowCycleMessage = v.show
	return out
}

func TestMonitoringService_GetState(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name       string
		stored     *models.CounterState
		show       bool
		assertFunc func(t *testing.T, got models.CounterView)
	}

	cases := []testCase{
		{
			name: "empty store renders defaults",
			assertFunc: func(t *testing.T, got models.CounterView) {
				if got.Count != 0 || got.CompletedCycles != 0 {
					t.Errorf("unexpected counts: %+v", got.CounterState)
				}
				if got.Elapsed != "00:00" {
					t.Errorf("Elapsed: want 00:00, got %q", got.Elapsed)
				}
				if got.CycleLength != counter.CycleLength {
					t.Errorf("CycleLength: want %d, got %d", counter.CycleLength, got.CycleLength)
				}
			},
		},
		{
			name: "loaded state is rendered with MM:SS",
			stored: &models.CounterState{
				Count: 158, StartingNumber: 50, CompletedCycles: 1, LastCycleCount: 158, ElapsedSeconds: 65,
			},
			assertFunc: func(t *testing.T, got models.CounterView) {
				if got.Count != 158 || got.StartingNumber != 50 || got.CompletedCycles != 1 {
					t.Errorf("unexpected state fields: %+v", got.CounterState)
				}
				if got.Elapsed != "01:05" {
					t.Errorf("Elapsed: want 01:05, got %q", got.Elapsed)
				}
				if got.TimerRunning {
					t.Errorf("TimerRunning: want false after load")
				}
			},
		},
		{
			name: "viewer flags are passed through",
			show: true,
			assertFunc: func(t *testing.T, got models.CounterView) {
				if !got.ShowCycleMessage {
					t.Errorf("ShowCycleMessage: want true")
				}
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			repo := &fakeStateRepo{stored: tc.stored}
			session := NewSession(repo, nil, nil, nil)
			session.Load(ctx)

			viewer := &stubViewer{show: tc.show}
			svc := NewMonitoringService(session, viewer)

			got, err := svc.GetState(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if viewer.calls != 1 {
				t.Errorf("viewer calls: want 1, got %d", viewer.calls)
			}
			tc.assertFunc(t, got)
		})
	}
}

func TestMonitoringService_CancelledContext(t *testing.T) {
	t.Parallel()

	session := NewSession(&fakeStateRepo{}, nil, nil, nil)
	svc := NewMonitoringService(session, &stubViewer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.GetState(ctx); err == nil {
		t.Fatalf("expected context error, got nil")
	}
}
