package rescache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNilRedisClient = errors.New("redis store: nil client")

// RedisStore keeps entries in Redis under a key prefix. The tag index stays
// in the owning Cache, so a RedisStore must not be shared between processes
// that expect to invalidate each other's entries.
type RedisStore struct {
	rdb         redis.UniversalClient
	prefix      string
	closeClient bool
}

func NewRedisStore(client redis.UniversalClient, prefix string, closeClient bool) (*RedisStore, error) {
	if client == nil {
		return nil, ErrNilRedisClient
	}
	return &RedisStore{rdb: client, prefix: prefix, closeClient: closeClient}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.rdb.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) Del(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.prefix+key).Err()
}

func (s *RedisStore) Close(context.Context) error {
	if !s.closeClient {
		return nil
	}
	if err := s.rdb.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}
