package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/m007/school-ui-api/internal/domain/auth"
)

func newTestStore(t *testing.T) (*CredentialStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCredentialStore(client, "sid-1"), mr
}

func TestCredentialStore_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	user := domainauth.NewUser("u-1", "Maria", "maria@m007.com", domainauth.RoleTeacher)
	require.NoError(t, store.SaveToken(ctx, "tok-xyz"))
	require.NoError(t, store.SaveSnapshot(ctx, domainauth.Snapshot{User: &user, IsAuthenticated: true}))

	rh, err := store.Rehydrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-xyz", rh.AccessToken)
	require.NotNil(t, rh.Snapshot)
	assert.True(t, rh.Snapshot.IsAuthenticated)
	require.NotNil(t, rh.Snapshot.User)
	assert.Equal(t, domainauth.RoleTeacher, rh.Snapshot.User.Role)
}

func TestCredentialStore_SlotsAreIndependent(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	user := domainauth.NewUser("u-1", "Maria", "maria@m007.com", domainauth.RoleStudent)
	require.NoError(t, store.SaveToken(ctx, "tok-xyz"))
	require.NoError(t, store.SaveSnapshot(ctx, domainauth.Snapshot{User: &user, IsAuthenticated: true}))

	// The snapshot document must never contain the token.
	raw, err := mr.Get("auth:session:sid-1")
	require.NoError(t, err)
	assert.NotContains(t, raw, "tok-xyz")

	// Deleting only the token slot leaves the snapshot in place.
	mr.Del("auth:token:sid-1")
	rh, err := store.Rehydrate(ctx)
	require.NoError(t, err)
	assert.Empty(t, rh.AccessToken)
	assert.NotNil(t, rh.Snapshot)
}

func TestCredentialStore_RehydrateEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	rh, err := store.Rehydrate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rh.AccessToken)
	assert.Nil(t, rh.Snapshot)
}

func TestCredentialStore_Purge(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	user := domainauth.NewUser("u-1", "Maria", "maria@m007.com", domainauth.RoleAdmin)
	require.NoError(t, store.SaveToken(ctx, "tok-xyz"))
	require.NoError(t, store.SaveSnapshot(ctx, domainauth.Snapshot{User: &user, IsAuthenticated: true}))

	require.NoError(t, store.Purge(ctx))

	assert.False(t, mr.Exists("auth:token:sid-1"))
	assert.False(t, mr.Exists("auth:session:sid-1"))

	// Purging an already-empty store is a no-op.
	require.NoError(t, store.Purge(ctx))
}

func TestCredentialStore_CorruptSnapshotIsAnError(t *testing.T) {
	store, mr := newTestStore(t)

	require.NoError(t, mr.Set("auth:session:sid-1", "{not json"))
	require.NoError(t, mr.Set("auth:token:sid-1", "tok"))

	_, err := store.Rehydrate(context.Background())
	require.Error(t, err)
}

func TestCredentialStore_ValidationErrors(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	assert.Error(t, store.SaveToken(ctx, ""))

	empty := NewCredentialStore(nil, "")
	assert.Error(t, empty.SaveToken(ctx, "tok"))
	assert.NoError(t, empty.Purge(ctx))
}
