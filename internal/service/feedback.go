package service

import (
	"context"
	"sync"
	"time"

	"vedic_counter/internal/counter"
	"vedic_counter/internal/logger"
	"vedic_counter/internal/models"
)

// Feedback types pushed to subscribers.
const (
	FeedbackCycleCompleted = "cycle_completed"
	FeedbackMessageCleared = "message_cleared"
)

const (
	defaultMessageTTL   = 5 * time.Second
	defaultSoundURL     = "/vediccounter/ding.mp3"
	defaultVibrateMilli = 200

	messageClearKey = "cycle-message-clear"
)

// Deferrer schedules keyed one-shot callbacks. Replace drops whatever was
// pending under the same key.
type Deferrer interface {
	Replace(key string, delay time.Duration, fn func()) error
	Cancel(key string)
}

// FeedbackConfig comes from the feedback.* config keys.
type FeedbackConfig struct {
	MessageTTL    time.Duration
	SoundURL      string
	VibrateMillis int
}

func (c FeedbackConfig) withDefaults() FeedbackConfig {
	if c.MessageTTL <= 0 {
		c.MessageTTL = defaultMessageTTL
	}
	if c.SoundURL == "" {
		c.SoundURL = defaultSoundURL
	}
	if c.VibrateMillis <= 0 {
		c.VibrateMillis = defaultVibrateMilli
	}
	return c
}

// FeedbackService owns the transient cycle message and fans cues out to
// subscribers. None of it is persisted.
type FeedbackService struct {
	cfg   FeedbackConfig
	sched Deferrer
	hub   *Hub
	log   *logger.Logger

	mu      sync.RWMutex
	show    bool
	message string
}

func NewFeedbackService(cfg FeedbackConfig, sched Deferrer, hub *Hub, log *logger.Logger) *FeedbackService {
	if hub == nil {
		hub = NewHub(0)
	}
	return &FeedbackService{
		cfg:   cfg.withDefaults(),
		sched: sched,
		hub:   hub,
		log:   logger.OrNop(log),
	}
}

// HandleEvent reacts to session events. Subscribe it to the bus.
func (f *FeedbackService) HandleEvent(_ context.Context, ev counter.Event) {
	switch ev.Type {
	case counter.EventCycleCompleted:
		f.announceCycle(ev)
	case counter.EventReset:
		if f.sched != nil {
			f.sched.Cancel(messageClearKey)
		}
		f.clearMessage()
	}
}

// View renders s together with the transient message flags.
func (f *FeedbackService) View(s models.CounterState) models.CounterView {
	v := counter.View(s)
	f.mu.RLock()
	v.ShowCycleMessage = f.show
	if f.show {
		v.CycleMessage = f.message
	}
	f.mu.RUnlock()
	return v
}

// Subscribe returns a stream of feedback payloads and its cancel function.
func (f *FeedbackService) Subscribe() (<-chan models.Feedback, func()) {
	return f.hub.Subscribe()
}

func (f *FeedbackService) announceCycle(ev counter.Event) {
	f.mu.Lock()
	f.show = true
	f.message = counter.CycleMessage
	f.mu.Unlock()

	// a second cycle inside the TTL restarts the countdown
	if f.sched != nil {
		if err := f.sched.Replace(messageClearKey, f.cfg.MessageTTL, f.expireMessage); err != nil {
			f.log.Warnw("cycle_message_schedule_failed", "err", err)
		}
	}

	delivered := f.hub.Broadcast(models.Feedback{
		Type:            FeedbackCycleCompleted,
		Count:           ev.State.Count,
		CompletedCycles: ev.State.CompletedCycles,
		Message:         counter.CycleMessage,
		SoundURL:        f.cfg.SoundURL,
		VibrateMillis:   f.cfg.VibrateMillis,
		OccurredAt:      ev.At,
	})
	f.log.Infow("cycle_completed",
		"count", ev.State.Count,
		"completed_cycles", ev.State.CompletedCycles,
		"subscribers", delivered,
	)
	if dropped := f.hub.Len() - delivered; dropped > 0 {
		f.log.Debugw("feedback_dropped", "subscribers", dropped)
	}
}

func (f *FeedbackService) expireMessage() {
	if !f.clearMessage() {
		return
	}
	f.hub.Broadcast(models.Feedback{
		Type:       FeedbackMessageCleared,
		OccurredAt: time.Now().UTC(),
	})
}

// clearMessage hides the message and reports whether it was visible.
func (f *FeedbackService) clearMessage() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	was := f.show
	f.show = false
	f.message = ""
	return was
}

// Hub fans feedback out to subscribers. A subscriber that is not keeping up
// misses payloads instead of blocking the sender.
type Hub struct {
	mu   sync.Mutex
	subs map[chan models.Feedback]struct{}
	buf  int
}

const defaultHubBuffer = 8

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultHubBuffer
	}
	return &Hub{subs: make(map[chan models.Feedback]struct{}), buf: buffer}
}

// Subscribe registers a new subscriber. Calling the returned func more than once is safe.
func (h *Hub) Subscribe() (<-chan models.Feedback, func()) {
	ch := make(chan models.Feedback, h.buf)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Broadcast sends fb to every subscriber without blocking and returns how
// many received it.
func (h *Hub) Broadcast(fb models.Feedback) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	delivered := 0
	for ch := range h.subs {
		select {
		case ch <- fb:
			delivered++
		default:
		}
	}
	return delivered
}

// Len returns the number of active subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
