package redisstorage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	responsecache "github.com/karupanerura/response-cache"
	"github.com/karupanerura/response-cache/storage"
)

// Storage is a Redis-backed cache storage.
type Storage struct {
	client redis.UniversalClient
	codec  Codec
	clock  responsecache.Clock
}

var _ responsecache.ResponseStorage = (*Storage)(nil)

// NewRedisStorage creates a cache storage backed by the given Redis client.
// It panics if client is nil.
func NewRedisStorage(client redis.UniversalClient, opts ...Option) *Storage {
	if client == nil {
		panic("redisstorage: client must not be nil")
	}

	s := &Storage{
		client: client,
		codec:  GobCodec{},
		clock:  responsecache.SystemClock,
	}
	for _, opt := range opts {
		opt.apply(s)
	}
	return s
}

func (s *Storage) Set(ctx context.Context, entry *responsecache.Entry) error {
	var ttl time.Duration
	if !entry.ExpiresAt.IsZero() {
		ttl = entry.ExpiresAt.Sub(s.clock.Now())
		if ttl <= 0 {
			// Already expired, nothing worth storing.
			return nil
		}
	}

	data, err := s.codec.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: encode %q: %w", storage.ErrSet, entry.Key, err)
	}
	if err := s.client.Set(ctx, entry.Key, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %q: %w", storage.ErrSet, entry.Key, err)
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, key string) (*responsecache.Entry, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", storage.ErrGet, key, err)
	}

	entry, err := s.codec.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %q: %w", storage.ErrGet, key, err)
	}

	// Redis evicts on its own clock; re-check with ours to stay consistent
	// with the rest of the library under clock injection.
	if !entry.ExpiresAt.IsZero() && !entry.ExpiresAt.After(s.clock.Now()) {
		return nil, nil
	}
	return entry, nil
}

func (s *Storage) Delete(ctx context.Context, key string) (bool, error) {
	deleted, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %q: %w", storage.ErrDelete, key, err)
	}
	return deleted > 0, nil
}
