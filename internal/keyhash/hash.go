// Package keyhash hashes cache keys to bucket indexes.
package keyhash

import (
	"hash"
	"hash/fnv"
	"sync"
)

const (
	// intSize is the size of an int in bytes.
	intSize = 32 << (^uint(0) >> 63)
)

// Hash computes an FNV-1a hash of the key as an int.
// On 32-bit platforms the 32-bit variant is used so the result fits in an int.
func Hash(key string) int {
	if intSize == 32 {
		return hash32(key)
	}
	return hash64(key)
}

var hash32Pool = &resettablePool[hash.Hash32]{
	pool: sync.Pool{
		New: func() any {
			return fnv.New32a()
		},
	},
}

var hash64Pool = &resettablePool[hash.Hash64]{
	pool: sync.Pool{
		New: func() any {
			return fnv.New64a()
		},
	},
}

// resetter is an interface that defines a Reset method.
// Types that implement this interface can be used with resettablePool.
type resetter interface {
	Reset()
}

// resettablePool is a generic pool for objects that implement the resetter interface.
// It ensures that pooled objects are reset before being reused.
type resettablePool[H resetter] struct {
	pool sync.Pool
}

// Put adds an object to the pool after resetting it.
func (p *resettablePool[H]) Put(h H) {
	h.Reset()
	p.pool.Put(h)
}

// Get retrieves an object from the pool.
func (p *resettablePool[H]) Get() H {
	return p.pool.Get().(H)
}

func hash32(s string) int {
	h := hash32Pool.Get()
	defer hash32Pool.Put(h)
	_, _ = h.Write([]byte(s))
	return int(h.Sum32())
}

func hash64(s string) int {
	h := hash64Pool.Get()
	defer hash64Pool.Put(h)
	_, _ = h.Write([]byte(s))
	return int(h.Sum64())
}
