package responsecache

import (
	"context"
	"net/http"
)

// KeyBuilder derives a deterministic cache key from an incoming request.
// Implementations must not consume the request body.
type KeyBuilder func(*http.Request) (string, error)

// ResponseStorage is an interface for a cache storage backend.
// Implementations must be thread-safe.
type ResponseStorage interface {
	// Set stores an entry under its key.
	// If the key already exists, it should overwrite the existing entry.
	// It must clone the input entry before storing it.
	Set(context.Context, *Entry) error

	// Get retrieves an entry by its key.
	// If the key is not found or expired, it should return nil as the entry.
	// It must clone the returned entry before returning it.
	Get(context.Context, string) (*Entry, error)

	// Delete removes the entry stored under the key.
	// It reports whether an entry was removed.
	Delete(context.Context, string) (bool, error)
}
