// Package memstorage provides an in-memory implementation of the
// responsecache.ResponseStorage interface.
//
// The storage distributes keys across multiple buckets for improved
// concurrency. It supports configuration options for key hashing, bucket
// sizing, the clock implementation, the expiration policy, and an optional
// background sweep that evicts expired entries.
package memstorage
