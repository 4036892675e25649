package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	domainauth "github.com/m007/school-ui-api/internal/domain/auth"
	"github.com/m007/school-ui-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider = (*MockIdentityProvider)(nil)
	_ ports.CredentialStore  = (*MemoryCredentialStore)(nil)
)

// MemoryCredentialStore is an in-memory two-slot credential store for unit
// tests and local development. The token and snapshot slots are independent,
// matching the durable-storage layout of the production Redis adapter.
type MemoryCredentialStore struct {
	mu       sync.Mutex
	token    string
	snapshot *domainauth.Snapshot

	// Optional fault injection
	SaveTokenErr    error
	SaveSnapshotErr error
	RehydrateErr    error
	PurgeErr        error

	// Call counters for asserting write ordering and idempotence
	TokenWrites int
	PurgeCalls  int
}

// NewMemoryCredentialStore creates an empty in-memory credential store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

func (m *MemoryCredentialStore) SaveToken(_ context.Context, token string) error {
	if m.SaveTokenErr != nil {
		return m.SaveTokenErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.TokenWrites++
	return nil
}

func (m *MemoryCredentialStore) SaveSnapshot(_ context.Context, snap domainauth.Snapshot) error {
	if m.SaveSnapshotErr != nil {
		return m.SaveSnapshotErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = &snap
	return nil
}

func (m *MemoryCredentialStore) Rehydrate(_ context.Context) (ports.Rehydrated, error) {
	if m.RehydrateErr != nil {
		return ports.Rehydrated{}, m.RehydrateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return ports.Rehydrated{AccessToken: m.token, Snapshot: m.snapshot}, nil
}

func (m *MemoryCredentialStore) Purge(_ context.Context) error {
	if m.PurgeErr != nil {
		return m.PurgeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.snapshot = nil
	m.PurgeCalls++
	return nil
}

// Token returns the current token slot value (test helper).
func (m *MemoryCredentialStore) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Snapshot returns the current snapshot slot value (test helper).
func (m *MemoryCredentialStore) Snapshot() *domainauth.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}

// SeedAuthenticated fills both slots as a completed login would (test helper).
func (m *MemoryCredentialStore) SeedAuthenticated(token string, user domainauth.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.snapshot = &domainauth.Snapshot{User: &user, IsAuthenticated: true}
}

// MockIdentityProvider simulates the remote identity endpoint for tests.
// By default it accepts any credentials whose email matches a seeded account,
// persists the token and snapshot to its credential store (as the production
// adapters do), and returns a deterministic identity.
type MockIdentityProvider struct {
	LoginFunc  func(ctx context.Context, creds domainauth.Credentials) (ports.LoginResult, error)
	LogoutFunc func(ctx context.Context) error

	Creds *MemoryCredentialStore

	// DefaultIdentity is returned when LoginFunc is nil.
	DefaultIdentity domainauth.Identity
	// DefaultToken is the access token issued when LoginFunc is nil.
	DefaultToken string

	LoginCalls  int
	LogoutCalls int
}

// NewMockIdentityProvider creates a provider with sensible defaults backed by
// the given credential store.
func NewMockIdentityProvider(creds *MemoryCredentialStore) *MockIdentityProvider {
	return &MockIdentityProvider{
		Creds: creds,
		DefaultIdentity: domainauth.Identity{
			ID:    "u-100",
			Name:  "Mock Teacher",
			Email: "teacher@m007.com",
			Role:  "teacher",
		},
		DefaultToken: "tok-abc123",
	}
}

func (m *MockIdentityProvider) Login(ctx context.Context, creds domainauth.Credentials) (ports.LoginResult, error) {
	m.LoginCalls++
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, creds)
	}

	ident := m.DefaultIdentity
	res := ports.LoginResult{User: &ident, AccessToken: m.DefaultToken}

	// Mirror the production adapters: persist token + identity snapshot as
	// the provider-side cache write before returning.
	if m.Creds != nil {
		if err := m.Creds.SaveToken(ctx, res.AccessToken); err != nil {
			return ports.LoginResult{}, err
		}
		role, roleErr := domainauth.ParseRole(ident.Role)
		if roleErr == nil {
			user := domainauth.NewUser(ident.ID, ident.Name, ident.Email, role)
			if err := m.Creds.SaveSnapshot(ctx, domainauth.Snapshot{User: &user, IsAuthenticated: true}); err != nil {
				return ports.LoginResult{}, err
			}
		}
	}
	return res, nil
}

func (m *MockIdentityProvider) Logout(ctx context.Context) error {
	m.LogoutCalls++
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	if m.Creds != nil {
		return m.Creds.Purge(ctx)
	}
	return nil
}

func (m *MockIdentityProvider) IsAuthenticated(ctx context.Context) bool {
	if m.Creds == nil {
		return false
	}
	rh, err := m.Creds.Rehydrate(ctx)
	return err == nil && rh.AccessToken != "" && rh.Snapshot != nil && rh.Snapshot.IsAuthenticated
}

func (m *MockIdentityProvider) CurrentUser(ctx context.Context) *domainauth.User {
	if m.Creds == nil {
		return nil
	}
	rh, err := m.Creds.Rehydrate(ctx)
	if err != nil || rh.Snapshot == nil {
		return nil
	}
	return rh.Snapshot.User
}

func (m *MockIdentityProvider) AccessToken(ctx context.Context) string {
	if m.Creds == nil {
		return ""
	}
	rh, err := m.Creds.Rehydrate(ctx)
	if err != nil {
		return ""
	}
	return rh.AccessToken
}
