package redisstorage_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	responsecache "github.com/karupanerura/response-cache"
	"github.com/karupanerura/response-cache/storage"
	"github.com/karupanerura/response-cache/storage/redisstorage"
	"github.com/karupanerura/response-cache/storage/storagetest"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, server
}

func testEntry(key string, expiresAt time.Time) *responsecache.Entry {
	return &responsecache.Entry{
		Key: key,
		Response: &responsecache.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": {"text/plain"}},
			Body:       []byte("hello"),
		},
		ExpiresAt: expiresAt,
	}
}

func TestStorage(t *testing.T) {
	t.Parallel()

	storagetest.TestStorage(t, func(clock responsecache.Clock) (responsecache.ResponseStorage, func()) {
		server, err := miniredis.Run()
		if err != nil {
			t.Fatal(err)
		}
		client := redis.NewClient(&redis.Options{Addr: server.Addr()})
		release := func() {
			client.Close()
			server.Close()
		}
		return redisstorage.NewRedisStorage(client, redisstorage.WithClock(clock)), release
	})
}

func TestNewRedisStorage_PanicsOnNilClient(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { redisstorage.NewRedisStorage(nil) })
}

func TestSet_DerivesRedisTTL(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t)
	redisStorage := redisstorage.NewRedisStorage(client)

	require.NoError(t, redisStorage.Set(t.Context(), testEntry("a", time.Now().Add(time.Hour))))

	ttl := server.TTL("a")
	assert.Greater(t, ttl, 59*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)
}

func TestSet_SkipsAlreadyExpiredEntries(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t)
	redisStorage := redisstorage.NewRedisStorage(client)

	require.NoError(t, redisStorage.Set(t.Context(), testEntry("a", time.Now().Add(-time.Minute))))
	assert.False(t, server.Exists("a"))
}

func TestSet_NoExpirationPersists(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t)
	redisStorage := redisstorage.NewRedisStorage(client)

	require.NoError(t, redisStorage.Set(t.Context(), testEntry("a", time.Time{})))
	require.True(t, server.Exists("a"))
	assert.Zero(t, server.TTL("a"))
}

func TestGet_CorruptData(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t)
	redisStorage := redisstorage.NewRedisStorage(client)

	require.NoError(t, server.Set("a", "not a gob payload"))

	entry, err := redisStorage.Get(t.Context(), "a")
	assert.Nil(t, entry)
	assert.ErrorIs(t, err, storage.ErrGet)
}

func TestStorage_ClientError(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t)
	redisStorage := redisstorage.NewRedisStorage(client)
	server.Close()

	err := redisStorage.Set(t.Context(), testEntry("a", time.Time{}))
	assert.ErrorIs(t, err, storage.ErrSet)

	_, err = redisStorage.Get(t.Context(), "a")
	assert.ErrorIs(t, err, storage.ErrGet)

	_, err = redisStorage.Delete(t.Context(), "a")
	assert.ErrorIs(t, err, storage.ErrDelete)
}

func TestGobCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := redisstorage.GobCodec{}
	want := testEntry("a", time.Now().Add(time.Hour).Truncate(0))

	data, err := codec.Marshal(want)
	require.NoError(t, err)

	got, err := codec.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, want.Key, got.Key)
	assert.Equal(t, want.Response, got.Response)
	assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt))
}
