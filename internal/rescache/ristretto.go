package rescache

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/ristretto"
)

type RistrettoConfig struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
}

// RistrettoStore is an in-process store with TinyLFU admission. Entry cost is
// the payload size in bytes.
type RistrettoStore struct {
	c *ristretto.Cache
}

func NewRistrettoStore(cfg RistrettoConfig) (*RistrettoStore, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
	})
	if err != nil {
		return nil, err
	}
	return &RistrettoStore{c: c}, nil
}

func (s *RistrettoStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		s.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

func (s *RistrettoStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	ok := s.c.SetWithTTL(key, value, int64(len(value)), ttl)
	// writes go through a buffer; wait so the next Get observes this one
	s.c.Wait()
	return ok, nil
}

func (s *RistrettoStore) Del(_ context.Context, key string) error {
	s.c.Del(key)
	return nil
}

func (s *RistrettoStore) Close(context.Context) error {
	s.c.Close()
	return nil
}
