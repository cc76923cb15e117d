package responsecache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option is the interface for the options of a Cache.
type Option interface {
	apply(*Cache)
}

type optionFunc func(*Cache)

func (f optionFunc) apply(c *Cache) {
	f(c)
}

// WithNamespace sets the root namespace. All keys are prefixed with it.
func WithNamespace(namespace string) Option {
	return optionFunc(func(c *Cache) {
		c.namespace = namespace
	})
}

// WithNamespacePolicy sets how route namespaces combine with the root
// namespace. The default policy is NamespaceConcat.
func WithNamespacePolicy(policy NamespacePolicy) Option {
	return optionFunc(func(c *Cache) {
		c.nsPolicy = policy
	})
}

// WithCacheHeader sets the cache status header name and its hit and miss
// values. The defaults are "X-Cache", "HIT" and "MISS".
func WithCacheHeader(name, hit, miss string) Option {
	if name == "" {
		panic("cache header name must not be empty")
	}
	return optionFunc(func(c *Cache) {
		c.headerName = name
		c.headerHit = hit
		c.headerMiss = miss
	})
}

// WithAcceptedStatusCodes sets the HTTP status codes whose responses may be
// cached. By default only 200 is cached.
func WithAcceptedStatusCodes(codes ...int) Option {
	if len(codes) == 0 {
		panic("at least one accepted status code is required")
	}
	return optionFunc(func(c *Cache) {
		c.accepted = make(map[int]struct{}, len(codes))
		for _, code := range codes {
			c.accepted[code] = struct{}{}
		}
	})
}

// WithDefaultTTL sets the expiration time applied to stored responses when a
// route does not override it. A zero duration stores responses without an
// expiration time, which is the default.
func WithDefaultTTL(ttl time.Duration) Option {
	if ttl < 0 {
		panic("default TTL must not be negative")
	}
	return optionFunc(func(c *Cache) {
		c.defaultTTL = ttl
	})
}

// WithClock sets the clock used to compute expiration times.
func WithClock(clock Clock) Option {
	return optionFunc(func(c *Cache) {
		c.clock = clock
	})
}

// WithErrorHandler sets a function that is called when a storage operation
// fails during request handling. Storage failures never fail a request: a
// lookup failure degrades to a cache miss and a store failure leaves the
// response uncached.
func WithErrorHandler(onError func(error)) Option {
	return optionFunc(func(c *Cache) {
		c.onError = onError
	})
}

// WithMetrics registers hit, miss, store, and error counters with the given
// registerer and updates them during request handling.
func WithMetrics(reg prometheus.Registerer) Option {
	return optionFunc(func(c *Cache) {
		c.metrics = newMetricsSet(reg)
	})
}
