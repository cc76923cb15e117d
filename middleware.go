package responsecache

import (
	"fmt"
	"net/http"
	"time"

	"github.com/karupanerura/response-cache/internal/flight"
)

// RouteOption configures caching for a single wrapped handler.
type RouteOption interface {
	apply(*routeConfig)
}

type routeOptionFunc func(*routeConfig)

func (f routeOptionFunc) apply(cfg *routeConfig) {
	f(cfg)
}

type routeConfig struct {
	ttl        time.Duration
	hasTTL     bool
	namespace  string
	keyBuilder KeyBuilder
	tags       []string
	coalesce   bool
}

// WithTTL sets the expiration time for responses stored by this route,
// overriding the cache-wide default. A zero duration stores responses
// without an expiration time.
func WithTTL(ttl time.Duration) RouteOption {
	if ttl < 0 {
		panic("route TTL must not be negative")
	}
	return routeOptionFunc(func(cfg *routeConfig) {
		cfg.ttl = ttl
		cfg.hasTTL = true
	})
}

// WithRouteNamespace sets the namespace for responses stored by this route.
// It combines with the root namespace according to the configured policy.
func WithRouteNamespace(namespace string) RouteOption {
	return routeOptionFunc(func(cfg *routeConfig) {
		cfg.namespace = namespace
	})
}

// WithKeyBuilder sets the key builder for this route.
// The default is DefaultKeyBuilder.
func WithKeyBuilder(keyBuilder KeyBuilder) RouteOption {
	if keyBuilder == nil {
		panic("key builder must not be nil")
	}
	return routeOptionFunc(func(cfg *routeConfig) {
		cfg.keyBuilder = keyBuilder
	})
}

// WithTags associates the given tags with every response stored by this
// route, so they can be invalidated together with Cache.InvalidateTag.
//
// The tag index grows with the number of distinct keys stored under a tag
// and is only released by InvalidateTag; entries that expire through their
// TTL stay indexed until then. Tag routes whose key cardinality is bounded,
// or use a key builder that bounds it (such as QueryKeyBuilder).
func WithTags(tags ...string) RouteOption {
	return routeOptionFunc(func(cfg *routeConfig) {
		cfg.tags = append(cfg.tags, tags...)
	})
}

// WithRequestCoalescing makes concurrent cache misses for the same key
// execute the wrapped handler only once. The request that executes the
// handler is reported as a miss; the coalesced requests replay the stored
// response as hits. If the handler's response turns out not to be cacheable,
// each coalesced request falls back to executing the handler itself.
func WithRequestCoalescing() RouteOption {
	return routeOptionFunc(func(cfg *routeConfig) {
		cfg.coalesce = true
	})
}

// Middleware returns a middleware that caches the responses of the handler
// it wraps, using this Cache's storage backend.
func (c *Cache) Middleware(opts ...RouteOption) func(http.Handler) http.Handler {
	cfg := routeConfig{keyBuilder: DefaultKeyBuilder}
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	ttl := c.defaultTTL
	if cfg.hasTTL {
		ttl = cfg.ttl
	}
	namespace := c.resolveNamespace(cfg.namespace)

	return func(next http.Handler) http.Handler {
		h := &cachingHandler{
			cache:      c,
			next:       next,
			ttl:        ttl,
			namespace:  namespace,
			keyBuilder: cfg.keyBuilder,
			tags:       cfg.tags,
		}
		if cfg.coalesce {
			h.flights = &flight.Group[*missResult]{}
		}
		return h
	}
}

// cachingHandler is a request-handling wrapper that short-circuits handler
// execution using a cache lookup keyed by request attributes.
type cachingHandler struct {
	cache      *Cache
	next       http.Handler
	ttl        time.Duration
	namespace  string
	keyBuilder KeyBuilder
	tags       []string
	flights    *flight.Group[*missResult]
}

// missResult is the outcome of a coalesced handler execution.
// The response is shared between coalesced requests and is never mutated.
type missResult struct {
	response *Response
	stored   bool
}

func (h *cachingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key, err := h.keyBuilder(r)
	if err != nil {
		h.cache.report(fmt.Errorf("build cache key: %w", err))
		h.next.ServeHTTP(w, r)
		return
	}
	fullKey := qualifyKey(h.namespace, key)

	if entry := h.cache.lookup(r.Context(), fullKey); entry != nil {
		h.cache.countHit()
		h.writeCached(w, r, entry.Response)
		return
	}

	if h.flights == nil {
		h.serveMiss(w, r, fullKey)
		return
	}

	result, leader, err := h.flights.Do(r.Context(), fullKey, func() (*missResult, error) {
		res, stored := h.serveMiss(w, r, fullKey)
		return &missResult{response: res, stored: stored}, nil
	})
	switch {
	case leader:
		// The response was already written inside the flight.
	case err != nil && r.Context().Err() != nil:
		// The context was canceled while waiting; the client is gone.
	case err != nil:
		// The leader failed before producing a shareable response, for
		// example because its handler panicked. Run the handler for this
		// request so the failure is not converted into an empty success.
		h.next.ServeHTTP(w, r)
	case !result.stored:
		h.next.ServeHTTP(w, r)
	default:
		h.cache.countHit()
		h.writeCached(w, r, result.response)
	}
}

// serveMiss executes the wrapped handler, stores the response if its status
// code is accepted, and replays it to the client. It returns the produced
// response and whether it was stored.
func (h *cachingHandler) serveMiss(w http.ResponseWriter, r *http.Request, fullKey string) (*Response, bool) {
	rec := newRecorder()
	h.next.ServeHTTP(rec, r)

	res := rec.response()
	if !h.cache.accepts(res.StatusCode) {
		replay(w, res)
		return nil, false
	}

	res.Header.Set("ETag", etagFor(res.Body))
	h.cache.store(r.Context(), fullKey, res, h.ttl, h.tags)
	h.cache.countMiss()
	h.cache.markHeader(w.Header(), false)
	replay(w, res)
	return res, true
}

// writeCached replays a stored response on a cache hit, answering conditional
// requests with 304 Not Modified.
func (h *cachingHandler) writeCached(w http.ResponseWriter, r *http.Request, res *Response) {
	if candidate := r.Header.Get("If-None-Match"); etagMatch(res.Header.Get("ETag"), candidate) {
		copyHeader(w.Header(), res.Header)
		h.cache.markHeader(w.Header(), true)
		w.Header().Set("Content-Length", "0")
		w.WriteHeader(http.StatusNotModified)
		return
	}

	h.cache.markHeader(w.Header(), true)
	replay(w, res)
}

// replay writes a response to the client. The cache status header, if any,
// must already be set on w.
func replay(w http.ResponseWriter, res *Response) {
	copyHeader(w.Header(), res.Header)
	w.WriteHeader(res.StatusCode)
	_, _ = w.Write(res.Body)
}

func copyHeader(dst, src http.Header) {
	for name, values := range src {
		dst[name] = append([]string(nil), values...)
	}
}
