package repository

import (
	"context"
	"encoding/json"
	"strconv"

	"vedic_counter/internal/models"
)

// Storage keys. Values are JSON encoded integers.
const (
	KeyCounterValue    = "counterValue"
	KeyStartingNumber  = "startingNumber"
	KeyCompletedCycles = "completedCycles"
	KeyLastCycleCount  = "lastCycleCount"
	KeyTimerValue      = "timerValue"
)

// StateKeys lists every persisted key in write order.
var StateKeys = []string{
	KeyCounterValue,
	KeyStartingNumber,
	KeyCompletedCycles,
	KeyLastCycleCount,
	KeyTimerValue,
}

// StateStore maps models.CounterState onto the storage keys of a KVStore.
type StateStore struct {
	kv KVStore
}

func NewStateStore(kv KVStore) *StateStore {
	return &StateStore{kv: kv}
}

var _ StateRepo = (*StateStore)(nil)

// Save writes all five keys. TimerRunning is not persisted.
func (r *StateStore) Save(ctx context.Context, s models.CounterState) error {
	values := map[string]int{
		KeyCounterValue:    s.Count,
		KeyStartingNumber:  s.StartingNumber,
		KeyCompletedCycles: s.CompletedCycles,
		KeyLastCycleCount:  s.LastCycleCount,
		KeyTimerValue:      s.ElapsedSeconds,
	}
	entries := make([]Entry, 0, len(StateKeys))
	for _, k := range StateKeys {
		entries = append(entries, Entry{Key: k, Value: []byte(strconv.Itoa(values[k]))})
	}
	return r.kv.PutAll(ctx, entries)
}

// Load reads the keys back. Absent or malformed values fall back to 0;
// only a failing store is reported as an error.
func (r *StateStore) Load(ctx context.Context) (models.CounterState, error) {
	raw, err := r.kv.GetAll(ctx, StateKeys)
	if err != nil {
		return models.CounterState{}, err
	}
	return models.CounterState{
		Count:           decodeNonNegative(raw[KeyCounterValue]),
		StartingNumber:  decodeNonNegative(raw[KeyStartingNumber]),
		CompletedCycles: decodeNonNegative(raw[KeyCompletedCycles]),
		LastCycleCount:  decodeNonNegative(raw[KeyLastCycleCount]),
		ElapsedSeconds:  decodeNonNegative(raw[KeyTimerValue]),
	}, nil
}

// Clear erases every persisted key.
func (r *StateStore) Clear(ctx context.Context) error {
	return r.kv.DeleteAll(ctx, StateKeys)
}

// decodeNonNegative parses a JSON integer. null, garbage, fractions and
// negative numbers all decode to 0.
func decodeNonNegative(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil || n < 0 {
		return 0
	}
	return n
}
