package models

import "time"

// Feedback is pushed to connected clients when a cycle completes.
// Clients play SoundURL and vibrate for VibrateMillis when the device supports it.
type Feedback struct {
	Type            string    `json:"type"`
	Count           int       `json:"count"`
	CompletedCycles int       `json:"completed_cycles"`
	Message         string    `json:"message"`
	SoundURL        string    `json:"sound_url,omitempty"`
	VibrateMillis   int       `json:"vibrate_ms,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}
