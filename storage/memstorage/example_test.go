package memstorage_test

import (
	"time"

	"github.com/karupanerura/response-cache/storage/memstorage"
)

func ExampleNewInMemoryStorage() {
	// Create a simple in-memory storage
	storage := memstorage.NewInMemoryStorage()

	_ = storage
}

func ExampleNewInMemoryStorage_opts() {
	// Create a storage with custom options
	storage := memstorage.NewInMemoryStorage(
		memstorage.WithBucketsSize(512),
		memstorage.WithKeyHash(func(key string) int {
			return len(key)
		}),
		memstorage.WithSweepInterval(time.Minute),
	)
	defer storage.Close()

	_ = storage
}
