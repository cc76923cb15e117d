// Package redisstorage provides a Redis-backed implementation of the
// responsecache.ResponseStorage interface using github.com/redis/go-redis.
//
// Entries are serialized through a pluggable Codec (gob by default) and
// stored with a TTL derived from the entry's expiration time, so Redis
// itself evicts expired responses.
package redisstorage
