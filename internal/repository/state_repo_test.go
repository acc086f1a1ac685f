package repository

import (
	"context"
	"errors"
	"testing"

	"vedic_counter/internal/models"
)

// memKV is an in-memory KVStore used to observe what StateStore writes.
type memKV struct {
	data   map[string][]byte
	getErr error
	putErr error
	puts   [][]Entry
}

func newMemKV() *memKV { return &memKV{data: map[string][]byte{}} }

func (m *memKV) GetAll(ctx context.Context, keys []string) (map[string][]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := map[string][]byte{}
	for _, k := range keys {
		if v, ok := m.data[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (m *memKV) PutAll(ctx context.Context, entries []Entry) error {
	m.puts = append(m.puts, entries)
	if m.putErr != nil {
		return m.putErr
	}
	for _, e := range entries {
		m.data[e.Key] = e.Value
	}
	return nil
}

func (m *memKV) DeleteAll(ctx context.Context, keys []string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func sampleState() models.CounterState {
	return models.CounterState{
		Count:           158,
		StartingNumber:  50,
		CompletedCycles: 1,
		LastCycleCount:  158,
		ElapsedSeconds:  65,
		TimerRunning:    true,
	}
}

func TestStateStore_Save_WritesAllFiveKeysAsJSON(t *testing.T) {
	kv := newMemKV()
	store := NewStateStore(kv)

	if err := store.Save(context.Background(), sampleState()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(kv.puts) != 1 || len(kv.puts[0]) != 5 {
		t.Fatalf("expected a single write of 5 keys, got %v", kv.puts)
	}
	want := map[string]string{
		"counterValue":    "158",
		"startingNumber":  "50",
		"completedCycles": "1",
		"lastCycleCount":  "158",
		"timerValue":      "65",
	}
	for k, v := range want {
		if got := string(kv.data[k]); got != v {
			t.Errorf("key %s = %q, want %q", k, got, v)
		}
	}
}

func TestStateStore_Load_RoundTripDropsTimerRunning(t *testing.T) {
	kv := newMemKV()
	store := NewStateStore(kv)
	_ = store.Save(context.Background(), sampleState())

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := sampleState()
	want.TimerRunning = false
	if got != want {
		t.Fatalf("Load() = %+v, want %+v", got, want)
	}
}

func TestStateStore_Load_MalformedAndMissingDefaultToZero(t *testing.T) {
	kv := newMemKV()
	kv.data["counterValue"] = []byte(`{not json`)
	kv.data["startingNumber"] = []byte(`"12"`)
	kv.data["completedCycles"] = []byte(`null`)
	kv.data["lastCycleCount"] = []byte(`-4`)
	kv.data["timerValue"] = []byte(`30`)

	got, err := NewStateStore(kv).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := models.CounterState{ElapsedSeconds: 30}
	if got != want {
		t.Fatalf("Load() = %+v, want %+v", got, want)
	}
}

func TestStateStore_Load_EmptyStoreIsZeroState(t *testing.T) {
	got, err := NewStateStore(newMemKV()).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != (models.CounterState{}) {
		t.Fatalf("Load() = %+v, want zero state", got)
	}
}

func TestStateStore_Load_StoreErrorIsReturned(t *testing.T) {
	kv := newMemKV()
	kv.getErr = errors.New("io")
	if _, err := NewStateStore(kv).Load(context.Background()); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestStateStore_Clear_RemovesAllKeys(t *testing.T) {
	kv := newMemKV()
	store := NewStateStore(kv)
	_ = store.Save(context.Background(), sampleState())
	kv.data["unrelated"] = []byte("1")

	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	for _, k := range StateKeys {
		if _, ok := kv.data[k]; ok {
			t.Errorf("key %s still present after Clear", k)
		}
	}
	if _, ok := kv.data["unrelated"]; !ok {
		t.Errorf("Clear must only touch counter keys")
	}
}
