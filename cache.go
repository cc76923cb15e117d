package responsecache

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/karupanerura/response-cache/internal/tagindex"
)

// NamespacePolicy controls how a route namespace combines with the root
// namespace configured on the Cache.
type NamespacePolicy int

const (
	// NamespaceConcat appends the route namespace to the root namespace,
	// separated by a colon. This is the default policy.
	NamespaceConcat NamespacePolicy = iota

	// NamespaceReplace replaces the root namespace with the route namespace.
	NamespaceReplace
)

// Default cache status header values.
const (
	DefaultCacheHeader = "X-Cache"
	DefaultHitValue    = "HIT"
	DefaultMissValue   = "MISS"
)

// Cache associates a configured storage backend with HTTP handlers so that it
// is available at request-handling time without global lookups.
//
// A Cache is safe for concurrent use. Create one with New, wrap handlers with
// Middleware, and invalidate stored responses with Invalidate or
// InvalidateTag.
type Cache struct {
	storage    ResponseStorage
	namespace  string
	nsPolicy   NamespacePolicy
	headerName string
	headerHit  string
	headerMiss string
	accepted   map[int]struct{}
	defaultTTL time.Duration
	clock      Clock
	onError    func(error)
	metrics    *metricsSet
	tags       *tagindex.Index
}

// New creates a Cache bound to the given storage backend.
// It panics if storage is nil.
func New(storage ResponseStorage, opts ...Option) *Cache {
	if storage == nil {
		panic("responsecache: storage must not be nil")
	}

	c := &Cache{
		storage:    storage,
		headerName: DefaultCacheHeader,
		headerHit:  DefaultHitValue,
		headerMiss: DefaultMissValue,
		accepted:   map[int]struct{}{http.StatusOK: {}},
		clock:      SystemClock,
		tags:       tagindex.New(),
	}
	for _, opt := range opts {
		opt.apply(c)
	}
	return c
}

// resolveNamespace constructs a full namespace according to the selected policy.
func (c *Cache) resolveNamespace(route string) string {
	switch {
	case route == "":
		return c.namespace
	case c.nsPolicy == NamespaceConcat && c.namespace != "":
		return c.namespace + ":" + route
	default:
		return route
	}
}

// qualifyKey prefixes the key with the namespace.
func qualifyKey(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return namespace + ":" + key
}

// GetCached retrieves the response stored under the key within the namespace.
// The namespace is resolved against the root namespace according to the
// configured policy; an empty namespace addresses the root namespace itself.
// It returns nil if no valid entry exists.
func (c *Cache) GetCached(ctx context.Context, namespace, key string) (*Response, error) {
	entry, err := c.storage.Get(ctx, qualifyKey(c.resolveNamespace(namespace), key))
	if err != nil {
		return nil, fmt.Errorf("get cached response: %w", err)
	}
	if entry == nil {
		return nil, nil
	}
	return entry.Response, nil
}

// SetCached stores the response under the key within the namespace.
// A zero ttl stores the response without an expiration time.
func (c *Cache) SetCached(ctx context.Context, namespace, key string, res *Response, ttl time.Duration) error {
	entry := &Entry{
		Key:      qualifyKey(c.resolveNamespace(namespace), key),
		Response: res,
	}
	if ttl > 0 {
		entry.ExpiresAt = c.clock.Now().Add(ttl)
	}
	if err := c.storage.Set(ctx, entry); err != nil {
		return fmt.Errorf("set cached response: %w", err)
	}
	return nil
}

// Invalidate removes the response stored under the key within the namespace.
// It reports whether an entry was removed.
func (c *Cache) Invalidate(ctx context.Context, namespace, key string) (bool, error) {
	deleted, err := c.storage.Delete(ctx, qualifyKey(c.resolveNamespace(namespace), key))
	if err != nil {
		return false, fmt.Errorf("invalidate cached response: %w", err)
	}
	return deleted, nil
}

// InvalidateTag removes every response stored under a key that was tagged with
// the tag (see WithTags). It returns the number of removed entries.
//
// Keys are removed from the tag index only after their storage delete
// succeeds, so a failed invalidation can be retried: the keys that could not
// be deleted stay indexed. The returned error aggregates all delete failures.
//
// The tag index is kept in process memory: when the storage backend is shared
// between replicas, each replica only invalidates the keys it has seen.
func (c *Cache) InvalidateTag(ctx context.Context, tag string) (int, error) {
	deleted := 0
	var errs []error
	for _, key := range c.tags.Keys(tag) {
		ok, err := c.storage.Delete(ctx, key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		c.tags.Remove(tag, key)
		if ok {
			deleted++
		}
	}
	if len(errs) > 0 {
		return deleted, fmt.Errorf("invalidate tag %q: %w", tag, errors.Join(errs...))
	}
	return deleted, nil
}

// lookup retrieves an entry by its full key, degrading storage failures to a
// cache miss. The error is reported through the configured error handler.
func (c *Cache) lookup(ctx context.Context, fullKey string) *Entry {
	entry, err := c.storage.Get(ctx, fullKey)
	if err != nil {
		c.report(fmt.Errorf("cache lookup: %w", err))
		return nil
	}
	return entry
}

// store writes an entry and registers its tags. Storage failures are reported
// through the configured error handler and otherwise dropped.
func (c *Cache) store(ctx context.Context, fullKey string, res *Response, ttl time.Duration, tags []string) {
	entry := &Entry{Key: fullKey, Response: res}
	if ttl > 0 {
		entry.ExpiresAt = c.clock.Now().Add(ttl)
	}
	if err := c.storage.Set(ctx, entry); err != nil {
		c.report(fmt.Errorf("cache store: %w", err))
		return
	}
	c.tags.Add(fullKey, tags...)
	if c.metrics != nil {
		c.metrics.stores.Inc()
	}
}

// accepts reports whether responses with the status code may be cached.
func (c *Cache) accepts(statusCode int) bool {
	_, ok := c.accepted[statusCode]
	return ok
}

// markHeader sets the cache status header.
func (c *Cache) markHeader(header http.Header, hit bool) {
	if hit {
		header.Set(c.headerName, c.headerHit)
	} else {
		header.Set(c.headerName, c.headerMiss)
	}
}

func (c *Cache) report(err error) {
	if c.metrics != nil {
		c.metrics.errors.Inc()
	}
	if c.onError != nil {
		c.onError(err)
	}
}

func (c *Cache) countHit() {
	if c.metrics != nil {
		c.metrics.hits.Inc()
	}
}

func (c *Cache) countMiss() {
	if c.metrics != nil {
		c.metrics.misses.Inc()
	}
}
