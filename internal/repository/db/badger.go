package db

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// OpenBadger opens the embedded key-value store used when storage.driver is
// "badger". An empty path keeps everything in memory.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return bdb, nil
}
