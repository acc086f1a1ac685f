package repository

import "context"

// Entry is one key with its raw JSON value.
type Entry struct {
	Key   string
	Value []byte
}

// KVStore is a string-keyed byte store, the durable equivalent of browser local storage.
// Missing keys are simply absent from GetAll results.
type KVStore interface {
	GetAll(ctx context.Context, keys []string) (map[string][]byte, error)
	PutAll(ctx context.Context, entries []Entry) error
	DeleteAll(ctx context.Context, keys []string) error
}
