package responsecache_test

import (
	"testing"
	"time"

	responsecache "github.com/karupanerura/response-cache"
)

func TestClockFunc(t *testing.T) {
	t.Parallel()

	want := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := responsecache.ClockFunc(func() time.Time {
		return want
	})
	if got := clock.Now(); !got.Equal(want) {
		t.Errorf("Now() = %v, want %v", got, want)
	}
}

func TestSystemClock(t *testing.T) {
	t.Parallel()

	before := time.Now()
	got := responsecache.SystemClock.Now()
	after := time.Now()
	if got.Before(before) || got.After(after) {
		t.Errorf("Now() = %v, want between %v and %v", got, before, after)
	}
}
