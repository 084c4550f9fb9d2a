package redisstore_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/colegioing/go-portal-client/session"
	"github.com/colegioing/go-portal-client/session/redisstore"
)

func newTestStore(t *testing.T) *redisstore.Store {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redisstore.New(client, "portal:session:test")
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, ok, err := store.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	pair := session.TokenPair{Access: "access-1", Refresh: "refresh-1"}
	require.NoError(t, store.Set(ctx, pair))

	got, ok, err := store.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, pair, got)

	require.NoError(t, store.SetDisplayName(ctx, "Ing. Rocha"))
	name, err := store.DisplayName(ctx)
	require.NoError(t, err)
	require.Equal(t, "Ing. Rocha", name)

	require.NoError(t, store.Clear(ctx))
	_, ok, err = store.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	name, err = store.DisplayName(ctx)
	require.NoError(t, err)
	require.Empty(t, name)
}

func TestSetDisplayNameEmptyRemovesOverride(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.SetDisplayName(ctx, "Override"))
	require.NoError(t, store.SetDisplayName(ctx, ""))

	name, err := store.DisplayName(ctx)
	require.NoError(t, err)
	require.Empty(t, name)
}

func TestPairOverwriteReplacesBothTokens(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Set(ctx, session.TokenPair{Access: "a-1", Refresh: "r-1"}))
	require.NoError(t, store.Set(ctx, session.TokenPair{Access: "a-2", Refresh: "r-2"}))

	got, ok, err := store.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, session.TokenPair{Access: "a-2", Refresh: "r-2"}, got)
}
