package models

// CounterState is the full counter session: count, cycle progress and timer.
type CounterState struct {
	Count           int  `json:"count"`
	StartingNumber  int  `json:"starting_number"`
	CompletedCycles int  `json:"completed_cycles"`
	LastCycleCount  int  `json:"last_cycle_count"`
	ElapsedSeconds  int  `json:"elapsed_seconds"`
	TimerRunning    bool `json:"timer_running"` // never persisted
}

// CounterView is what clients render: the state plus derived display fields.
type CounterView struct {
	CounterState
	Elapsed          string `json:"elapsed"` // MM:SS
	CycleLength      int    `json:"cycle_length"`
	ShowCycleMessage bool   `json:"show_cycle_message"`
	CycleMessage     string `json:"cycle_message,omitempty"`
}
