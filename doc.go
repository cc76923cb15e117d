// Package responsecache provides HTTP response caching for net/http handlers.
//
// A Cache binds a pluggable storage backend (in-memory, Redis, or any
// ResponseStorage implementation) to request handling. Wrapping a handler
// with Cache.Middleware short-circuits handler execution on a cache hit:
// the stored status code, headers, and body are replayed to the client,
// conditional requests are answered with 304 Not Modified based on the
// stored ETag, and a cache status header reports HIT or MISS.
//
// On a miss the wrapped handler runs against a buffering recorder. Responses
// with an accepted status code (200 by default) are stored under a key
// derived from the request and replayed on subsequent requests until the
// entry expires or is invalidated.
package responsecache
