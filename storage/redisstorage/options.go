package redisstorage

import (
	responsecache "github.com/karupanerura/response-cache"
)

// Option is the interface for the options of the Redis cache storage.
type Option interface {
	apply(*Storage)
}

type optionFunc func(*Storage)

func (f optionFunc) apply(s *Storage) {
	f(s)
}

// WithCodec sets the codec used to serialize entries.
// The default codec is GobCodec.
func WithCodec(codec Codec) Option {
	if codec == nil {
		panic("codec must not be nil")
	}
	return optionFunc(func(s *Storage) {
		s.codec = codec
	})
}

// WithClock sets the clock used to derive TTLs from expiration times.
func WithClock(clock responsecache.Clock) Option {
	return optionFunc(func(s *Storage) {
		s.clock = clock
	})
}
