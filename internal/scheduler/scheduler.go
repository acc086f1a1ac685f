// Package scheduler runs keyed one-shot callbacks on a gocron scheduler.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// Deferred runs at most one pending callback per key. Scheduling a key again
// replaces the pending callback.
type Deferred struct {
	scheduler gocron.Scheduler

	mu   sync.Mutex
	jobs map[string]uuid.UUID
}

// New creates and starts the underlying scheduler.
func New(opts ...gocron.SchedulerOption) (*Deferred, error) {
	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	s.Start()
	return &Deferred{
		scheduler: s,
		jobs:      make(map[string]uuid.UUID),
	}, nil
}

// Replace cancels whatever is pending under key and schedules fn to run once
// after delay.
func (d *Deferred) Replace(key string, delay time.Duration, fn func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.removeLocked(key)

	start := gocron.OneTimeJobStartImmediately()
	if delay > 0 {
		start = gocron.OneTimeJobStartDateTime(time.Now().Add(delay))
	}

	id := uuid.New()
	_, err := d.scheduler.NewJob(
		gocron.OneTimeJob(start),
		gocron.NewTask(d.fire, key, id, fn),
		gocron.WithName(key),
		gocron.WithIdentifier(id),
	)
	if err != nil {
		return fmt.Errorf("schedule %q: %w", key, err)
	}
	d.jobs[key] = id
	return nil
}

// Cancel drops the pending callback for key, if any.
func (d *Deferred) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.removeLocked(key)
}

// Pending reports whether a callback is waiting under key.
func (d *Deferred) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.jobs[key]
	return ok
}

// Shutdown stops the scheduler. Pending callbacks never run.
func (d *Deferred) Shutdown() error {
	d.mu.Lock()
	d.jobs = make(map[string]uuid.UUID)
	d.mu.Unlock()
	return d.scheduler.Shutdown()
}

func (d *Deferred) removeLocked(key string) {
	id, ok := d.jobs[key]
	if !ok {
		return
	}
	delete(d.jobs, key)
	// ErrJobNotFound once the job has already run
	_ = d.scheduler.RemoveJob(id)
}

// fire runs fn only if the job is still the current one for key.
func (d *Deferred) fire(key string, id uuid.UUID, fn func()) {
	d.mu.Lock()
	current, ok := d.jobs[key]
	if !ok || current != id {
		d.mu.Unlock()
		return
	}
	delete(d.jobs, key)
	d.mu.Unlock()

	fn()
}
