package memstorage

import (
	"time"

	responsecache "github.com/karupanerura/response-cache"
	"github.com/karupanerura/response-cache/expiration"
	"github.com/karupanerura/response-cache/internal/keyhash"
)

// DefaultBucketsSize is the default number of buckets in the storage.
var DefaultBucketsSize = 256

// Option is the interface for the options of the in-memory cache storage.
type Option interface {
	apply(*options)
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) {
	f(o)
}

// WithKeyHash sets the key hash function used to distribute keys across buckets.
func WithKeyHash(f func(string) int) Option {
	return optionFunc(func(o *options) {
		o.hashKey = f
	})
}

// WithBucketsSize sets the number of buckets in the storage.
// The number of buckets must be a natural number.
func WithBucketsSize(bucketsSize int) Option {
	if bucketsSize <= 0 {
		panic("bucketsSize must be natural number")
	}
	return optionFunc(func(o *options) {
		o.bucketsSize = bucketsSize
	})
}

// WithClock sets the clock used for expiration checks.
func WithClock(clock responsecache.Clock) Option {
	return optionFunc(func(o *options) {
		o.clock = clock
	})
}

// WithExpirationPolicy sets the expiration policy applied to stored entries.
func WithExpirationPolicy(policy expiration.ExpirationPolicy) Option {
	return optionFunc(func(o *options) {
		o.policy = policy
	})
}

// WithSweepInterval enables a background goroutine that removes expired
// entries at the given interval. The goroutine runs until Close is called.
func WithSweepInterval(interval time.Duration) Option {
	if interval <= 0 {
		panic("sweep interval must be positive")
	}
	return optionFunc(func(o *options) {
		o.sweepInterval = interval
	})
}

type options struct {
	hashKey       func(string) int
	bucketsSize   int
	clock         responsecache.Clock
	policy        expiration.ExpirationPolicy
	sweepInterval time.Duration
}

func defaultOptions() options {
	return options{
		hashKey:     keyhash.Hash,
		bucketsSize: DefaultBucketsSize,
		clock:       responsecache.SystemClock,
		policy:      expiration.GeneralExpirationPolicy{},
	}
}
