package badger

import (
	"context"
	"errors"
	"fmt"
	"movieapi/cache"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Open opens a badger database at path, or an in-memory one when path is empty.
func Open(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open %q: %w", path, err)
	}
	return db, nil
}

// CacheBackend implements [cache.Backend] on an embedded badger database.
// Badger hides entries past their TTL on read.
type CacheBackend struct {
	db *badger.DB
}

func NewCacheBackend(db *badger.DB) *CacheBackend {
	return &CacheBackend{db: db}
}

func (b *CacheBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, cache.ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("badger: get %q: %w", key, err)
	}
	return value, nil
}

func (b *CacheBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), value).WithTTL(ttl))
	})
	if err != nil {
		return fmt.Errorf("badger: set %q: %w", key, err)
	}
	return nil
}
