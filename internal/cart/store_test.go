package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, time.Hour), mr
}

func TestRedisStoreLoadMissingSession(t *testing.T) {
	store, _ := newTestRedisStore(t)

	c, err := store.Load(context.Background(), "no-such-session")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.False(t, c.Open)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	c := New()
	c.AddItem(testProduct(450, 5))
	c.Open = true

	require.NoError(t, store.Save(ctx, "session-1", c))

	loaded, err := store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Len(t, loaded.Items, 1)
	assert.Equal(t, c.Items[0].ProductID, loaded.Items[0].ProductID)
	assert.True(t, loaded.Items[0].Price.Equal(c.Items[0].Price))
	assert.True(t, loaded.Open)
}

func TestRedisStoreSessionsAreIsolated(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	c := New()
	c.AddItem(testProduct(100, 5))
	require.NoError(t, store.Save(ctx, "session-a", c))

	other, err := store.Load(ctx, "session-b")
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())
}

func TestRedisStoreDelete(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	c := New()
	c.AddItem(testProduct(100, 5))
	require.NoError(t, store.Save(ctx, "session-1", c))
	require.NoError(t, store.Delete(ctx, "session-1"))

	loaded, err := store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())

	// Deleting an absent session is fine
	require.NoError(t, store.Delete(ctx, "session-1"))
}

func TestRedisStoreCorruptBlobStartsOver(t *testing.T) {
	store, mr := newTestRedisStore(t)

	mr.Set("cart:session-1", "{not json")

	c, err := store.Load(context.Background(), "session-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestRedisStoreSetsTTL(t *testing.T) {
	store, mr := newTestRedisStore(t)

	require.NoError(t, store.Save(context.Background(), "session-1", New()))
	assert.Greater(t, mr.TTL("cart:session-1"), time.Duration(0))
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	c, err := store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	c.AddItem(testProduct(300, 5))
	require.NoError(t, store.Save(ctx, "session-1", c))

	loaded, err := store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Len(t, loaded.Items, 1)

	require.NoError(t, store.Delete(ctx, "session-1"))
	loaded, err = store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}
