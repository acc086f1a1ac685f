package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// KVBadger keeps counter keys in an embedded BadgerDB.
type KVBadger struct {
	db     *badger.DB
	prefix []byte
}

// NewKVBadger stores every key under prefix so the database can be shared.
func NewKVBadger(db *badger.DB, prefix string) *KVBadger {
	return &KVBadger{db: db, prefix: []byte(prefix)}
}

var _ KVStore = (*KVBadger)(nil)

func (r *KVBadger) key(k string) []byte {
	out := make([]byte, 0, len(r.prefix)+len(k))
	out = append(out, r.prefix...)
	return append(out, k...)
}

func (r *KVBadger) GetAll(ctx context.Context, keys []string) (map[string][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(keys))
	err := r.db.View(func(txn *badger.Txn) error {
		for _, k := range keys {
			item, err := txn.Get(r.key(k))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("get %q: %w", k, err)
			}
			val, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("read %q: %w", k, err)
			}
			out[k] = val
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *KVBadger) PutAll(ctx context.Context, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		for _, e := range entries {
			if err := txn.Set(r.key(e.Key), e.Value); err != nil {
				return fmt.Errorf("set %q: %w", e.Key, err)
			}
		}
		return nil
	})
}

func (r *KVBadger) DeleteAll(ctx context.Context, keys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		for _, k := range keys {
			if err := txn.Delete(r.key(k)); err != nil {
				return fmt.Errorf("delete %q: %w", k, err)
			}
		}
		return nil
	})
}
