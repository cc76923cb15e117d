// Package storagetest provides generic test cases for cache storage implementations.
package storagetest

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"

	responsecache "github.com/karupanerura/response-cache"
)

// FixedClock is a clock that returns a settable fixed time.
type FixedClock struct {
	Time time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.Time
}

func entry(key string, body string, expiresAt time.Time) *responsecache.Entry {
	return &responsecache.Entry{
		Key: key,
		Response: &responsecache.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": {"text/plain"}},
			Body:       []byte(body),
		},
		ExpiresAt: expiresAt,
	}
}

// TestStorage runs the ResponseStorage conformance suite against the storage
// returned by the provider. The provider receives the clock the storage must
// use for expiration checks and returns the storage with a release function.
func TestStorage(t *testing.T, provider func(responsecache.Clock) (responsecache.ResponseStorage, func())) {
	t.Run("SetAndGet", func(t *testing.T) {
		t.Parallel()

		storage, release := provider(responsecache.SystemClock)
		defer release()

		got, err := storage.Get(t.Context(), "a")
		if err != nil {
			t.Fatal(err)
		}
		if got != nil {
			t.Error("should not exist before Set")
		}

		want := entry("a", "hello", time.Now().Add(time.Hour))
		if err := storage.Set(t.Context(), want); err != nil {
			t.Fatal(err)
		}

		got, err = storage.Get(t.Context(), "a")
		if err != nil {
			t.Fatal(err)
		}
		if df := cmp.Diff(want, got); df != "" {
			t.Errorf("entry diff=%s", df)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		t.Parallel()

		storage, release := provider(responsecache.SystemClock)
		defer release()

		expiresAt := time.Now().Add(time.Hour)
		if err := storage.Set(t.Context(), entry("a", "old", expiresAt)); err != nil {
			t.Fatal(err)
		}
		want := entry("a", "new", expiresAt)
		if err := storage.Set(t.Context(), want); err != nil {
			t.Fatal(err)
		}

		got, err := storage.Get(t.Context(), "a")
		if err != nil {
			t.Fatal(err)
		}
		if df := cmp.Diff(want, got); df != "" {
			t.Errorf("entry diff=%s", df)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		t.Parallel()

		storage, release := provider(responsecache.SystemClock)
		defer release()

		deleted, err := storage.Delete(t.Context(), "a")
		if err != nil {
			t.Fatal(err)
		}
		if deleted {
			t.Error("nothing to delete yet")
		}

		if err := storage.Set(t.Context(), entry("a", "hello", time.Now().Add(time.Hour))); err != nil {
			t.Fatal(err)
		}

		deleted, err = storage.Delete(t.Context(), "a")
		if err != nil {
			t.Fatal(err)
		}
		if !deleted {
			t.Error("entry should be deleted")
		}

		got, err := storage.Get(t.Context(), "a")
		if err != nil {
			t.Fatal(err)
		}
		if got != nil {
			t.Error("should not exist after Delete")
		}
	})

	t.Run("Expiration", func(t *testing.T) {
		t.Parallel()

		base := time.Now()
		clock := &FixedClock{Time: base}
		storage, release := provider(clock)
		defer release()

		expiresAt := base.Add(time.Hour)
		want := entry("a", "hello", expiresAt)
		if err := storage.Set(t.Context(), want); err != nil {
			t.Fatal(err)
		}

		clock.Time = base.Add(time.Hour - time.Second)
		got, err := storage.Get(t.Context(), "a")
		if err != nil {
			t.Fatal(err)
		}
		if df := cmp.Diff(want, got); df != "" {
			t.Errorf("entry diff=%s", df)
		}

		clock.Time = base.Add(time.Hour)
		got, err = storage.Get(t.Context(), "a")
		if err != nil {
			t.Fatal(err)
		}
		if got != nil {
			t.Error("should be expired at exactly expiration time")
		}

		clock.Time = base.Add(time.Hour + time.Second)
		got, err = storage.Get(t.Context(), "a")
		if err != nil {
			t.Fatal(err)
		}
		if got != nil {
			t.Error("should be expired after expiration time")
		}
	})

	t.Run("NoExpiration", func(t *testing.T) {
		t.Parallel()

		base := time.Now()
		clock := &FixedClock{Time: base}
		storage, release := provider(clock)
		defer release()

		want := entry("a", "hello", time.Time{})
		if err := storage.Set(t.Context(), want); err != nil {
			t.Fatal(err)
		}

		clock.Time = base.Add(24 * 365 * time.Hour)
		got, err := storage.Get(t.Context(), "a")
		if err != nil {
			t.Fatal(err)
		}
		if df := cmp.Diff(want, got); df != "" {
			t.Errorf("entry diff=%s", df)
		}
	})

	t.Run("AliasingSafety", func(t *testing.T) {
		t.Parallel()

		storage, release := provider(responsecache.SystemClock)
		defer release()

		original := entry("a", "hello", time.Now().Add(time.Hour))
		if err := storage.Set(t.Context(), original); err != nil {
			t.Fatal(err)
		}

		// Mutating what was passed in must not affect the stored entry.
		original.Response.Body[0] = 'X'
		original.Response.Header.Set("Content-Type", "application/json")

		got, err := storage.Get(t.Context(), "a")
		if err != nil {
			t.Fatal(err)
		}
		if string(got.Response.Body) != "hello" {
			t.Errorf("stored body was mutated through the input: %q", got.Response.Body)
		}
		if got.Response.Header.Get("Content-Type") != "text/plain" {
			t.Errorf("stored header was mutated through the input: %q", got.Response.Header.Get("Content-Type"))
		}

		// Mutating what was returned must not affect the stored entry either.
		got.Response.Body[0] = 'Y'
		again, err := storage.Get(t.Context(), "a")
		if err != nil {
			t.Fatal(err)
		}
		if string(again.Response.Body) != "hello" {
			t.Errorf("stored body was mutated through a returned entry: %q", again.Response.Body)
		}
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		t.Parallel()

		storage, release := provider(responsecache.SystemClock)
		defer release()

		expiresAt := time.Now().Add(time.Hour)
		var eg errgroup.Group
		for i := 0; i < 16; i++ {
			key := fmt.Sprintf("key-%d", i)
			body := fmt.Sprintf("body-%d", i)
			eg.Go(func() error {
				return storage.Set(t.Context(), entry(key, body, expiresAt))
			})
		}
		if err := eg.Wait(); err != nil {
			t.Fatal(err)
		}

		eg = errgroup.Group{}
		for i := 0; i < 16; i++ {
			key := fmt.Sprintf("key-%d", i)
			body := fmt.Sprintf("body-%d", i)
			eg.Go(func() error {
				got, err := storage.Get(t.Context(), key)
				if err != nil {
					return err
				}
				if got == nil {
					return fmt.Errorf("missing entry for %q", key)
				}
				if string(got.Response.Body) != body {
					return fmt.Errorf("unexpected body for %q: %q", key, got.Response.Body)
				}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			t.Fatal(err)
		}
	})
}
