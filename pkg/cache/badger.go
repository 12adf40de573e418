package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCache stores entries in an embedded BadgerDB.
type BadgerCache struct {
	db *badger.DB
}

// NewBadgerCache opens a BadgerDB at path. An empty path opens an in-memory
// database.
func NewBadgerCache(path string) (*BadgerCache, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerCache{db: db}, nil
}

// Get retrieves a value. Expired entries are invisible to Badger reads.
func (c *BadgerCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if errors.Is(err, badger.ErrDBClosed) {
		return nil, false, ErrClosed
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value with an optional TTL.
func (c *BadgerCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := badger.NewEntry([]byte(key), data)
	if ttl > 0 {
		entry = entry.WithTTL(ttl)
	}
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(entry)
	})
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrClosed
	}
	return err
}

// Delete removes a value.
func (c *BadgerCache) Delete(ctx context.Context, key string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrClosed
	}
	return err
}

// Clear drops every entry.
func (c *BadgerCache) Clear(ctx context.Context) error {
	return c.db.DropAll()
}

// Close flushes and closes the database.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}

var (
	_ Cache   = (*BadgerCache)(nil)
	_ Clearer = (*BadgerCache)(nil)
)
