package rescache

import (
	"context"
	"errors"
	"time"

	"github.com/allegro/bigcache/v3"
)

// BigCacheStore has no per-entry TTL: every entry lives for the life window
// given at construction, which should match the Cache TTL.
type BigCacheStore struct {
	c *bigcache.BigCache
}

func NewBigCacheStore(ctx context.Context, lifeWindow time.Duration, hardMaxCacheSizeMB int) (*BigCacheStore, error) {
	conf := bigcache.DefaultConfig(lifeWindow)
	conf.CleanWindow = lifeWindow
	conf.Verbose = false
	if hardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = hardMaxCacheSizeMB
	}
	c, err := bigcache.New(ctx, conf)
	if err != nil {
		return nil, err
	}
	return &BigCacheStore{c: c}, nil
}

func (s *BigCacheStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := s.c.Get(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *BigCacheStore) Set(_ context.Context, key string, value []byte, _ time.Duration) (bool, error) {
	if err := s.c.Set(key, value); err != nil {
		return false, err
	}
	return true, nil
}

func (s *BigCacheStore) Del(_ context.Context, key string) error {
	err := s.c.Delete(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil
	}
	return err
}

func (s *BigCacheStore) Close(context.Context) error {
	return s.c.Close()
}
