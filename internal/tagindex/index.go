// Package tagindex maintains an in-process mapping from tags to cache keys.
// It backs grouped invalidation of cached responses.
package tagindex

import "sync"

// Index is a thread-safe tag to cache-key index.
type Index struct {
	mu   sync.RWMutex
	keys map[string]map[string]struct{}
}

// New creates an empty index.
func New() *Index {
	return &Index{keys: map[string]map[string]struct{}{}}
}

// Add associates the key with each of the tags.
func (i *Index) Add(key string, tags ...string) {
	if len(tags) == 0 {
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	for _, tag := range tags {
		keys, ok := i.keys[tag]
		if !ok {
			keys = map[string]struct{}{}
			i.keys[tag] = keys
		}
		keys[key] = struct{}{}
	}
}

// Keys returns the keys currently associated with the tag.
func (i *Index) Keys(tag string) []string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	keys := make([]string, 0, len(i.keys[tag]))
	for key := range i.keys[tag] {
		keys = append(keys, key)
	}
	return keys
}

// Remove disassociates the keys from the tag. A tag left without keys is
// removed from the index entirely.
func (i *Index) Remove(tag string, keys ...string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	set, ok := i.keys[tag]
	if !ok {
		return
	}
	for _, key := range keys {
		delete(set, key)
	}
	if len(set) == 0 {
		delete(i.keys, tag)
	}
}

// Drop removes the tag and returns the keys that were associated with it.
func (i *Index) Drop(tag string) []string {
	i.mu.Lock()
	defer i.mu.Unlock()

	keys := make([]string, 0, len(i.keys[tag]))
	for key := range i.keys[tag] {
		keys = append(keys, key)
	}
	delete(i.keys, tag)
	return keys
}
