// Package cache provides a TTL cache for metadata search responses,
// so repeated lookups of the same query skip the network entirely.
package cache

import (
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelflog/shelflog-server/internal/metadata/googlebooks"
)

// Cache is a badger-backed store of search results keyed by query.
// Entries expire via badger's native TTL; expired keys read as misses.
type Cache struct {
	db     *badger.DB
	logger *slog.Logger
	ttl    time.Duration
}

// Open creates the cache at the given path.
func Open(path string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable Badger's internal logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger cache: %w", err)
	}

	return &Cache{
		db:     db,
		logger: logger,
		ttl:    ttl,
	}, nil
}

// Close gracefully closes the cache.
func (c *Cache) Close() error {
	return c.db.Close()
}

// searchKey normalizes a query into a stable cache key.
func searchKey(query string) []byte {
	return []byte("search:" + strings.ToLower(strings.TrimSpace(query)))
}

// GetSearch returns the cached volumes for a query, or ok=false on a
// miss. Read errors degrade to a miss so lookups always proceed.
func (c *Cache) GetSearch(query string) ([]googlebooks.Volume, bool) {
	var volumes []googlebooks.Volume

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(searchKey(query))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &volumes)
		})
	})
	if err != nil {
		if err != badger.ErrKeyNotFound {
			c.logger.Warn("cache read failed", "query", query, "error", err)
		}
		return nil, false
	}

	return volumes, true
}

// SetSearch stores the volumes for a query with the configured TTL.
// Write errors are logged and swallowed; the cache is advisory.
func (c *Cache) SetSearch(query string, volumes []googlebooks.Volume) {
	data, err := json.Marshal(volumes)
	if err != nil {
		c.logger.Warn("cache marshal failed", "query", query, "error", err)
		return
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(searchKey(query), data).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		c.logger.Warn("cache write failed", "query", query, "error", err)
	}
}

// Invalidate drops the cached entry for a query.
func (c *Cache) Invalidate(query string) {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(searchKey(query))
	})
	if err != nil {
		c.logger.Warn("cache invalidate failed", "query", query, "error", err)
	}
}
