package jikan

import (
	"errors"
	"fmt"
	"time"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/logger"
	"github.com/dgraph-io/badger/v4"
)

// Cache holds raw API payloads keyed by request path.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Close() error
}

type BadgerCache struct {
	db  *badger.DB
	log *logger.Logger
}

// NewBadgerCache opens an in-memory badger store. Nothing touches disk.
func NewBadgerCache() (*BadgerCache, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open response cache: %w", err)
	}
	return &BadgerCache{db: db, log: logger.WithContext("component", "jikan_cache")}, nil
}

func (c *BadgerCache) Get(key string) ([]byte, bool) {
	var out []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			c.log.Debug("cache_get_failed", "key", key, "error", err.Error())
		}
		return nil, false
	}
	return out, true
}

func (c *BadgerCache) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), value).WithTTL(ttl))
	})
	if err != nil {
		c.log.Debug("cache_set_failed", "key", key, "error", err.Error())
	}
}

func (c *BadgerCache) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	if errors.Is(err, badger.ErrDBClosed) {
		return nil
	}
	return err
}

type noCache struct{}

func (noCache) Get(string) ([]byte, bool)         { return nil, false }
func (noCache) Set(string, []byte, time.Duration) {}
func (noCache) Close() error                      { return nil }
