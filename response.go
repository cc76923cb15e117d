package responsecache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"
)

// Response is the stored representation of an HTTP response.
type Response struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Header holds the response headers captured when the response was stored.
	// The cache status header is never stored; it is set at replay time.
	Header http.Header

	// Body is the full response body.
	Body []byte
}

// Clone returns a deep copy of the response.
func (r *Response) Clone() *Response {
	header := make(http.Header, len(r.Header))
	for name, values := range r.Header {
		header[name] = append([]string(nil), values...)
	}
	return &Response{
		StatusCode: r.StatusCode,
		Header:     header,
		Body:       append([]byte(nil), r.Body...),
	}
}

// Entry is a cached response with its key and expiration time.
type Entry struct {
	// Key is the full cache key, including any namespace prefix.
	Key string

	// Response is the cached response.
	Response *Response

	// ExpiresAt is the expiration time of the entry.
	// The zero time means the entry never expires.
	ExpiresAt time.Time
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	return &Entry{
		Key:       e.Key,
		Response:  e.Response.Clone(),
		ExpiresAt: e.ExpiresAt,
	}
}

// etagFor computes a strong entity tag for the response body.
func etagFor(body []byte) string {
	sum := sha256.Sum256(body)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// etagMatch reports whether the candidate from an If-None-Match header
// matches the stored entity tag. A weak validator prefix is ignored.
func etagMatch(stored, candidate string) bool {
	if stored == "" || candidate == "" {
		return false
	}
	candidate = strings.TrimPrefix(candidate, "W/")
	return stored == candidate
}
