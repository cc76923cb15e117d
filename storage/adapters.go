package storage

import (
	"context"

	responsecache "github.com/karupanerura/response-cache"
)

var _ responsecache.ResponseStorage = (*SilentErrorStorage)(nil)

// SilentErrorStorage is a decorator for a ResponseStorage that silently
// handles errors during operations. Instead of propagating the error, it
// calls the provided OnError function and behaves as if the operation found
// nothing (Get), stored nothing (Set), or deleted nothing (Delete).
type SilentErrorStorage struct {
	// Storage is the underlying storage that this decorator wraps.
	Storage responsecache.ResponseStorage

	// OnError is a function that is called when an error occurs during an
	// operation. The error is passed to the function as an argument.
	OnError func(error)
}

// Get retrieves the entry associated with the given key from the underlying
// storage. If an error occurs and an OnError handler is set, the error is
// passed to the handler and the method returns a nil entry and nil error.
func (s *SilentErrorStorage) Get(ctx context.Context, key string) (*responsecache.Entry, error) {
	entry, err := s.Storage.Get(ctx, key)
	if err != nil {
		if s.OnError != nil {
			s.OnError(err)
		}
		return nil, nil
	}
	return entry, nil
}

// Set stores the entry in the underlying storage. If an error occurs and an
// OnError handler is set, the error is passed to the handler. The method
// itself always returns nil.
func (s *SilentErrorStorage) Set(ctx context.Context, entry *responsecache.Entry) error {
	if err := s.Storage.Set(ctx, entry); err != nil && s.OnError != nil {
		s.OnError(err)
	}
	return nil
}

// Delete removes the entry from the underlying storage. If an error occurs
// and an OnError handler is set, the error is passed to the handler and the
// method reports that nothing was deleted.
func (s *SilentErrorStorage) Delete(ctx context.Context, key string) (bool, error) {
	deleted, err := s.Storage.Delete(ctx, key)
	if err != nil {
		if s.OnError != nil {
			s.OnError(err)
		}
		return false, nil
	}
	return deleted, nil
}

var _ responsecache.ResponseStorage = (*FunctionsStorage)(nil)

// FunctionsStorage is a ResponseStorage implementation that uses functions to
// perform the storage operations.
type FunctionsStorage struct {
	// SetFunc stores an entry under its key.
	SetFunc func(context.Context, *responsecache.Entry) error

	// GetFunc retrieves an entry by its key.
	// If the key is not found or expired, it should return nil as the entry.
	GetFunc func(context.Context, string) (*responsecache.Entry, error)

	// DeleteFunc removes the entry stored under the key and reports whether
	// an entry was removed.
	DeleteFunc func(context.Context, string) (bool, error)
}

// Set calls the SetFunc function to store the entry.
func (s *FunctionsStorage) Set(ctx context.Context, entry *responsecache.Entry) error {
	return s.SetFunc(ctx, entry)
}

// Get calls the GetFunc function to retrieve the entry associated with the key.
func (s *FunctionsStorage) Get(ctx context.Context, key string) (*responsecache.Entry, error) {
	return s.GetFunc(ctx, key)
}

// Delete calls the DeleteFunc function to remove the entry stored under the key.
func (s *FunctionsStorage) Delete(ctx context.Context, key string) (bool, error) {
	return s.DeleteFunc(ctx, key)
}
