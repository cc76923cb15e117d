package storage_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	responsecache "github.com/karupanerura/response-cache"
	"github.com/karupanerura/response-cache/storage"
	"github.com/karupanerura/response-cache/storage/memstorage"
	"github.com/karupanerura/response-cache/storage/storagetest"
)

func testEntry(key string) *responsecache.Entry {
	return &responsecache.Entry{
		Key: key,
		Response: &responsecache.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": {"text/plain"}},
			Body:       []byte("hello"),
		},
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestFunctionsStorage(t *testing.T) {
	t.Parallel()

	storagetest.TestStorage(t, func(clock responsecache.Clock) (responsecache.ResponseStorage, func()) {
		backend := memstorage.NewInMemoryStorage(memstorage.WithClock(clock))
		return &storage.FunctionsStorage{
			SetFunc:    backend.Set,
			GetFunc:    backend.Get,
			DeleteFunc: backend.Delete,
		}, func() { backend.Close() }
	})
}

func TestSilentErrorStorage_Transparent(t *testing.T) {
	t.Parallel()

	storagetest.TestStorage(t, func(clock responsecache.Clock) (responsecache.ResponseStorage, func()) {
		backend := memstorage.NewInMemoryStorage(memstorage.WithClock(clock))
		return &storage.SilentErrorStorage{
			Storage: backend,
			OnError: func(err error) { t.Errorf("unexpected error: %v", err) },
		}, func() { backend.Close() }
	})
}

func TestSilentErrorStorage_SuppressesErrors(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("backend is down")
	var seen []error
	broken := &storage.SilentErrorStorage{
		Storage: &storage.FunctionsStorage{
			SetFunc: func(context.Context, *responsecache.Entry) error {
				return wantErr
			},
			GetFunc: func(context.Context, string) (*responsecache.Entry, error) {
				return nil, wantErr
			},
			DeleteFunc: func(context.Context, string) (bool, error) {
				return false, wantErr
			},
		},
		OnError: func(err error) { seen = append(seen, err) },
	}

	if err := broken.Set(t.Context(), testEntry("a")); err != nil {
		t.Errorf("Set should suppress the error, got %v", err)
	}

	entry, err := broken.Get(t.Context(), "a")
	if err != nil {
		t.Errorf("Get should suppress the error, got %v", err)
	}
	if entry != nil {
		t.Errorf("Get should behave as a miss, got %+v", entry)
	}

	deleted, err := broken.Delete(t.Context(), "a")
	if err != nil {
		t.Errorf("Delete should suppress the error, got %v", err)
	}
	if deleted {
		t.Error("Delete should report nothing deleted")
	}

	if len(seen) != 3 {
		t.Fatalf("expected 3 reported errors, got %d", len(seen))
	}
	for _, err := range seen {
		if !errors.Is(err, wantErr) {
			t.Errorf("unexpected reported error: %v", err)
		}
	}
}

func TestSilentErrorStorage_NilOnError(t *testing.T) {
	t.Parallel()

	broken := &storage.SilentErrorStorage{
		Storage: &storage.FunctionsStorage{
			GetFunc: func(context.Context, string) (*responsecache.Entry, error) {
				return nil, errors.New("backend is down")
			},
		},
	}

	entry, err := broken.Get(t.Context(), "a")
	if err != nil {
		t.Fatal(err)
	}
	if entry != nil {
		t.Errorf("should behave as a miss, got %+v", entry)
	}
}

func TestSilentErrorStorage_PassesThroughResults(t *testing.T) {
	t.Parallel()

	backend := memstorage.NewInMemoryStorage()
	defer backend.Close()
	silent := &storage.SilentErrorStorage{Storage: backend}

	want := testEntry("a")
	if err := silent.Set(t.Context(), want); err != nil {
		t.Fatal(err)
	}
	got, err := silent.Get(t.Context(), "a")
	if err != nil {
		t.Fatal(err)
	}
	if df := cmp.Diff(want, got); df != "" {
		t.Errorf("entry diff=%s", df)
	}

	deleted, err := silent.Delete(t.Context(), "a")
	if err != nil {
		t.Fatal(err)
	}
	if !deleted {
		t.Error("entry should be deleted")
	}
}
