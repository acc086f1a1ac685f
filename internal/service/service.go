package service

import (
	"context"
	"time"

	"vedic_counter/internal/logger"
	"vedic_counter/internal/metrics"
	"vedic_counter/internal/models"
	"vedic_counter/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (models.Actor, error)
}

// Counter exposes the counting operations.
type Counter interface {
	Increment(ctx context.Context) (models.CounterView, error)
	Decrement(ctx context.Context) (models.CounterView, bool, error)
	SetStartingNumber(ctx context.Context, raw string) (models.CounterView, error)
	Reset(ctx context.Context, confirmed bool) (models.CounterView, bool, error)
}

// Timer exposes manual timer control. Run owns the ticker lifecycle and
// returns once ctx is canceled.
type Timer interface {
	Resume(ctx context.Context) (models.CounterView, error)
	Pause(ctx context.Context) (models.CounterView, error)
	Run(ctx context.Context)
}

// Monitoring exposes read-only state.
type Monitoring interface {
	GetState(ctx context.Context) (models.CounterView, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.CounterEvent, error)
}

// Feedback streams cycle cues to live clients.
type Feedback interface {
	Subscribe() (<-chan models.Feedback, func())
}

type Service struct {
	Counter
	Timer
	Monitoring
	EventLog
	Feedback
	Authorization

	Session *Session
}

// Deps carries the ambient collaborators and tunables of NewService.
type Deps struct {
	Log       *logger.Logger
	Metrics   *metrics.Metrics
	Scheduler Deferrer
	Hub       *Hub

	TimerTick time.Duration
	Feedback  FeedbackConfig
	Auth      AuthConfig
}

// NewService wires the repositories into the concrete services and subscribes
// them to a shared bus. Call Session.Load before serving.
func NewService(repos *repository.Repository, deps Deps) *Service {
	bus := NewBus()
	session := NewSession(repos.StateRepo, bus, deps.Log, deps.Metrics)
	feedback := NewFeedbackService(deps.Feedback, deps.Scheduler, deps.Hub, deps.Log)
	timer := NewTimerService(session, feedback, deps.TimerTick, deps.Log)
	recorder := NewEventRecorder(repos.EventRepo, deps.Log, deps.Metrics)

	// timer last: its auto-start publishes TIMER_STARTED from inside delivery
	bus.Subscribe(deps.Metrics.HandleEvent)
	bus.Subscribe(recorder.HandleEvent)
	bus.Subscribe(feedback.HandleEvent)
	bus.Subscribe(timer.HandleEvent)

	return &Service{
		Counter:       NewCounterService(session, feedback),
		Timer:         timer,
		Monitoring:    NewMonitoringService(session, feedback),
		EventLog:      NewEventLogService(repos.EventRepo),
		Feedback:      feedback,
		Authorization: NewAuthService(repos.Auth, deps.Auth),
		Session:       session,
	}
}
