// Package rescache is a tag-addressed response cache. Entries are byte
// payloads stored with a TTL in a pluggable Store; every entry carries a set
// of tags and invalidating a tag removes all entries that carry it.
package rescache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTTL     = 60 * time.Second
	DefaultMaxKeys = 10_000
)

// Producer computes a payload on a cache miss.
type Producer func(ctx context.Context) ([]byte, error)

// Recorder receives cache outcomes ("hit", "miss", "store", "skip_stale",
// "skip_full", "invalidate"). A nil Recorder disables recording.
type Recorder interface {
	RecordCache(outcome string)
}

type Options struct {
	TTL time.Duration
	// MaxKeys bounds the number of live keys. When the index is full and
	// holds no expired key, new payloads are served without being stored.
	MaxKeys  int
	Logger   *zap.Logger
	Recorder Recorder
}

type Cache struct {
	store Store
	ttl   time.Duration
	log   *zap.Logger
	rec   Recorder
	max   int
	now   func() time.Time

	// mu guards the tag index and generations. It is also held across
	// store writes and deletes so an invalidation cannot interleave with a
	// write it is meant to remove.
	mu      sync.Mutex
	tagKeys map[string]map[string]struct{}
	keyTags map[string][]string
	expires map[string]time.Time
	gens    map[string]uint64
}

func New(store Store, opts Options) (*Cache, error) {
	if store == nil {
		return nil, errors.New("rescache: store is required")
	}
	c := &Cache{
		store:   store,
		ttl:     opts.TTL,
		log:     opts.Logger,
		rec:     opts.Recorder,
		max:     opts.MaxKeys,
		now:     time.Now,
		tagKeys: make(map[string]map[string]struct{}),
		keyTags: make(map[string][]string),
		expires: make(map[string]time.Time),
		gens:    make(map[string]uint64),
	}
	if c.max <= 0 {
		c.max = DefaultMaxKeys
	}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c, nil
}

// TTL returns the lifetime given to new entries.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get returns the payload cached under key, or runs produce, stores its
// result tagged with tags and returns it. A failing producer stores nothing.
// If one of tags is invalidated while produce runs, the fresh payload is
// returned but not stored.
func (c *Cache) Get(ctx context.Context, key string, tags []string, produce Producer) ([]byte, error) {
	payload, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("cache get %q: %w", key, err)
	}
	if ok {
		c.record("hit")
		return payload, nil
	}
	c.record("miss")

	observed := c.snapshot(tags)

	payload, err = produce(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.unchangedLocked(observed) {
		c.record("skip_stale")
		c.log.Debug("cache write skipped, tag invalidated during compute", zap.String("key", key))
		return payload, nil
	}

	if !c.reserveLocked(ctx, key) {
		c.record("skip_full")
		c.log.Debug("cache write skipped, key index full", zap.String("key", key), zap.Int("max_keys", c.max))
		return payload, nil
	}

	stored, err := c.store.Set(ctx, key, payload, c.ttl)
	if err != nil {
		return nil, fmt.Errorf("cache set %q: %w", key, err)
	}
	if !stored {
		c.log.Debug("cache write rejected by store", zap.String("key", key))
		return payload, nil
	}
	c.indexLocked(key, tags)
	c.record("store")
	return payload, nil
}

// InvalidateTags removes every entry tagged with any of tags.
func (c *Cache) InvalidateTags(ctx context.Context, tags ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	removed := 0
	for _, tag := range tags {
		c.gens[tag]++
		for key := range c.tagKeys[tag] {
			if err := c.store.Del(ctx, key); err != nil {
				errs = append(errs, fmt.Errorf("cache del %q: %w", key, err))
				continue
			}
			c.unindexLocked(key)
			removed++
		}
	}
	c.record("invalidate")
	c.log.Debug("cache tags invalidated", zap.Strings("tags", tags), zap.Int("removed", removed))
	return errors.Join(errs...)
}

func (c *Cache) Close(ctx context.Context) error {
	return c.store.Close(ctx)
}

func (c *Cache) snapshot(tags []string) map[string]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]uint64, len(tags))
	for _, tag := range tags {
		out[tag] = c.gens[tag]
	}
	return out
}

func (c *Cache) unchangedLocked(observed map[string]uint64) bool {
	for tag, gen := range observed {
		if c.gens[tag] != gen {
			return false
		}
	}
	return true
}

func (c *Cache) indexLocked(key string, tags []string) {
	c.unindexLocked(key)
	c.expires[key] = c.now().Add(c.ttl)
	if len(tags) == 0 {
		return
	}
	owned := make([]string, len(tags))
	copy(owned, tags)
	c.keyTags[key] = owned
	for _, tag := range owned {
		keys, ok := c.tagKeys[tag]
		if !ok {
			keys = make(map[string]struct{})
			c.tagKeys[tag] = keys
		}
		keys[key] = struct{}{}
	}
}

func (c *Cache) unindexLocked(key string) {
	for _, tag := range c.keyTags[key] {
		keys := c.tagKeys[tag]
		delete(keys, key)
		if len(keys) == 0 {
			delete(c.tagKeys, tag)
		}
	}
	delete(c.keyTags, key)
	delete(c.expires, key)
}

// reserveLocked reports whether key fits in the index, dropping expired keys
// from the index and the store when the index is full.
func (c *Cache) reserveLocked(ctx context.Context, key string) bool {
	if _, ok := c.expires[key]; ok || len(c.expires) < c.max {
		return true
	}
	now := c.now()
	for k, exp := range c.expires {
		if now.Before(exp) {
			continue
		}
		if err := c.store.Del(ctx, k); err != nil {
			c.log.Warn("cache prune failed", zap.String("key", k), zap.Error(err))
			continue
		}
		c.unindexLocked(k)
	}
	return len(c.expires) < c.max
}

func (c *Cache) record(outcome string) {
	if c.rec != nil {
		c.rec.RecordCache(outcome)
	}
}
