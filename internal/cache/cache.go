// ABOUTME: Read-side response cache backed by Badger with a 5-minute TTL.
// ABOUTME: Server reads go through it; writes drop the subject's keys.
package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"
)

// DefaultTTL matches the refresh interval of the original table cache.
const DefaultTTL = 5 * time.Minute

// Cache is a small TTL byte cache. Keys are namespaced by subject so
// a write can invalidate all cached reads for one child.
type Cache struct {
	db  *badger.DB
	ttl time.Duration
}

// Open creates or opens a cache at the given directory.
func Open(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &Cache{db: db, ttl: DefaultTTL}, nil
}

// OpenInMemory creates a cache without disk state, used in tests and
// when no data directory is writable.
func OpenInMemory() (*Cache, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &Cache{db: db, ttl: DefaultTTL}, nil
}

// WithTTL overrides the entry lifetime.
func (c *Cache) WithTTL(ttl time.Duration) *Cache {
	c.ttl = ttl
	return c
}

// Key builds a cache key under a subject namespace.
func Key(subject string, parts ...string) []byte {
	key := "s:" + subject
	for _, p := range parts {
		key += ":" + p
	}
	return []byte(key)
}

// Get returns the cached value and whether it was present and fresh.
func (c *Cache) Get(key []byte) ([]byte, bool) {
	var val []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false
	}
	return val, true
}

// Set stores a value with the configured TTL.
func (c *Cache) Set(key, value []byte) error {
	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key, value).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
}

// InvalidateSubject drops every cached read for one subject. The
// trailing separator keeps "emma" from matching "emmanuel".
func (c *Cache) InvalidateSubject(subject string) error {
	return c.db.DropPrefix([]byte("s:" + subject + ":"))
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
