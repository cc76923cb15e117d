package memstorage

import (
	"context"
	"sync"
	"time"

	responsecache "github.com/karupanerura/response-cache"
)

type bucket struct {
	m  map[string]*responsecache.Entry
	mu sync.RWMutex
}

// Storage is a bucketed in-memory cache storage.
// Entries are cloned on Set and Get, so callers may mutate what they pass in
// and what they get back.
type Storage struct {
	buckets []*bucket
	options options

	sweepStop chan struct{}
	sweepDone chan struct{}
	closeOnce sync.Once
}

var _ responsecache.ResponseStorage = (*Storage)(nil)

// NewInMemoryStorage creates a new in-memory cache storage.
// The storage distributes keys across buckets using a hash function.
func NewInMemoryStorage(opts ...Option) *Storage {
	options := defaultOptions()
	for _, opt := range opts {
		opt.apply(&options)
	}

	buckets := make([]*bucket, options.bucketsSize)
	for i := range buckets {
		buckets[i] = &bucket{m: map[string]*responsecache.Entry{}}
	}

	s := &Storage{buckets: buckets, options: options}
	if options.sweepInterval > 0 {
		s.sweepStop = make(chan struct{})
		s.sweepDone = make(chan struct{})
		go s.sweepLoop(options.sweepInterval)
	}
	return s
}

// resolveBucket returns the bucket that corresponds to the given key.
func (s *Storage) resolveBucket(key string) *bucket {
	index := s.options.hashKey(key) % len(s.buckets)
	if index < 0 {
		index *= -1
	}
	return s.buckets[index]
}

// expired reports whether the entry is expired at the given time.
// An entry with a zero expiration time never expires.
func (s *Storage) expired(entry *responsecache.Entry, now time.Time) bool {
	return !entry.ExpiresAt.IsZero() && s.options.policy.IsExpired(now, entry.ExpiresAt)
}

func (s *Storage) Get(_ context.Context, key string) (*responsecache.Entry, error) {
	bucket := s.resolveBucket(key)
	bucket.mu.RLock()
	defer bucket.mu.RUnlock()

	if entry, ok := bucket.m[key]; ok && !s.expired(entry, s.options.clock.Now()) {
		return entry.Clone(), nil
	}
	return nil, nil
}

func (s *Storage) Set(_ context.Context, entry *responsecache.Entry) error {
	bucket := s.resolveBucket(entry.Key)
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	bucket.m[entry.Key] = entry.Clone()
	return nil
}

func (s *Storage) Delete(_ context.Context, key string) (bool, error) {
	bucket := s.resolveBucket(key)
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	if _, ok := bucket.m[key]; !ok {
		return false, nil
	}
	delete(bucket.m, key)
	return true, nil
}

// Close stops the background sweep, if one was configured.
// It is safe to call multiple times and from multiple goroutines.
func (s *Storage) Close() error {
	s.closeOnce.Do(func() {
		if s.sweepStop != nil {
			close(s.sweepStop)
			<-s.sweepDone
		}
	})
	return nil
}

// sweepLoop periodically removes expired entries so that memory is reclaimed
// even for keys that are never requested again.
func (s *Storage) sweepLoop(interval time.Duration) {
	defer close(s.sweepDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.sweepStop:
			return
		}
	}
}

func (s *Storage) sweep() {
	now := s.options.clock.Now()
	for _, bucket := range s.buckets {
		bucket.mu.Lock()
		for key, entry := range bucket.m {
			if s.expired(entry, now) {
				delete(bucket.m, key)
			}
		}
		bucket.mu.Unlock()
	}
}
