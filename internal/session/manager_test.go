package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/m007/school-ui-api/internal/domain/auth"
	mocks "github.com/m007/school-ui-api/internal/mocks/auth"
)

func TestManager_GetCreatesAndRehydrates(t *testing.T) {
	creds := mocks.NewMemoryCredentialStore()
	user := domainauth.NewUser("u-1", "Maria", "maria@m007.com", domainauth.RoleStudent)
	creds.SeedAuthenticated("tok-1", user)

	mgr := NewManager(func(string) *Store {
		return NewStore(mocks.NewMockIdentityProvider(creds), creds)
	})

	store := mgr.Get(context.Background(), "sid-1")
	require.NotNil(t, store)
	assert.True(t, store.IsAuthenticated(), "store must rehydrate on first sight")

	again := mgr.Get(context.Background(), "sid-1")
	assert.Same(t, store, again)
	assert.Equal(t, 1, mgr.Len())
}

func TestManager_ConcurrentGetCoalesces(t *testing.T) {
	var factoryCalls atomic.Int32
	mgr := NewManager(func(string) *Store {
		factoryCalls.Add(1)
		creds := mocks.NewMemoryCredentialStore()
		return NewStore(mocks.NewMockIdentityProvider(creds), creds)
	})

	const goroutines = 16
	stores := make([]*Store, goroutines)
	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stores[i] = mgr.Get(context.Background(), "sid-shared")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), factoryCalls.Load(), "rehydration must run once per sid")
	for i := 1; i < goroutines; i++ {
		assert.Same(t, stores[0], stores[i])
	}
}

func TestManager_StorageErrorDoesNotCacheStore(t *testing.T) {
	creds := mocks.NewMemoryCredentialStore()
	user := domainauth.NewUser("u-1", "Maria", "maria@m007.com", domainauth.RoleStudent)
	creds.SeedAuthenticated("tok-1", user)
	creds.RehydrateErr = errors.New("connection refused")

	mgr := NewManager(func(string) *Store {
		return NewStore(mocks.NewMockIdentityProvider(creds), creds)
	})

	store := mgr.Get(context.Background(), "sid-1")
	require.NotNil(t, store)
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, 0, mgr.Len(), "a store that could not rehydrate must not be cached")

	// Storage recovers: the next request for the same sid rehydrates again.
	creds.RehydrateErr = nil
	recovered := mgr.Get(context.Background(), "sid-1")
	require.NotNil(t, recovered)
	assert.True(t, recovered.IsAuthenticated())
	assert.Equal(t, 1, mgr.Len())
}

func TestManager_DropForgetsStore(t *testing.T) {
	mgr := NewManager(func(string) *Store {
		creds := mocks.NewMemoryCredentialStore()
		return NewStore(mocks.NewMockIdentityProvider(creds), creds)
	})

	mgr.Get(context.Background(), "sid-1")
	require.Equal(t, 1, mgr.Len())

	mgr.Drop("sid-1")
	assert.Equal(t, 0, mgr.Len())
	_, ok := mgr.Peek("sid-1")
	assert.False(t, ok)
}
