package responsecache

import (
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// DefaultKeyBuilder derives a cache key from the request method, path, and
// query string. Query parameters are sorted by name so that requests that
// differ only in parameter order produce the same key.
func DefaultKeyBuilder(r *http.Request) (string, error) {
	return digestKey(r.Method + " " + r.URL.Path + "?" + canonicalQuery(r.URL.Query(), nil)), nil
}

// QueryKeyBuilder returns a KeyBuilder that keys on the request method, path,
// and only the named query parameters. Parameters absent from the request
// contribute an empty value, so requests that omit a parameter share a key
// with requests that pass it empty.
func QueryKeyBuilder(names ...string) KeyBuilder {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return func(r *http.Request) (string, error) {
		return digestKey(r.Method + " " + r.URL.Path + "?" + canonicalQuery(r.URL.Query(), sorted)), nil
	}
}

// VaryKeyBuilder wraps base so that the named request headers take part in
// the key, in the manner of the Vary response header.
func VaryKeyBuilder(base KeyBuilder, headers ...string) KeyBuilder {
	sorted := append([]string(nil), headers...)
	sort.Strings(sorted)
	return func(r *http.Request) (string, error) {
		key, err := base(r)
		if err != nil {
			return "", err
		}

		var sb strings.Builder
		sb.WriteString(key)
		for _, name := range sorted {
			sb.WriteByte('\n')
			sb.WriteString(name)
			sb.WriteByte(':')
			sb.WriteString(r.Header.Get(name))
		}
		return digestKey(sb.String()), nil
	}
}

// canonicalQuery renders query parameters as "a=1&b=2" with names in sorted
// order. When only is non-nil, exactly those parameters are rendered; missing
// ones render with an empty value.
func canonicalQuery(query url.Values, only []string) string {
	names := only
	if names == nil {
		names = make([]string, 0, len(query))
		for name := range query {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	var sb strings.Builder
	for i, name := range names {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(query.Get(name))
	}
	return sb.String()
}

// digestKey hashes the canonical request representation so that keys have a
// bounded length regardless of URL size.
func digestKey(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return base64.StdEncoding.EncodeToString(sum[:])
}
