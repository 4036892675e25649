package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/session.

import (
	"context"

	domainauth "github.com/m007/school-ui-api/internal/domain/auth"
)

// LoginResult is the payload a provider returns on a successful login.
// Either field may legitimately be empty on a malformed provider response;
// the session store treats that as an incomplete server response.
type LoginResult struct {
	User        *domainauth.Identity
	AccessToken string
}

// IdentityProvider authenticates credentials against a remote identity
// source and maintains a local credential cache (backed by a CredentialStore)
// that the synchronous readers serve from.
type IdentityProvider interface {
	// Login submits the credential pair and, on success, persists the access
	// token and identity snapshot to the local cache before returning.
	Login(ctx context.Context, creds domainauth.Credentials) (LoginResult, error)

	// Logout purges the local token and identity cache. It does not contact
	// the remote identity source.
	Logout(ctx context.Context) error

	// Local cache readers; none of these perform a network round trip.
	IsAuthenticated(ctx context.Context) bool
	CurrentUser(ctx context.Context) *domainauth.User
	AccessToken(ctx context.Context) string
}

// Rehydrated is the result of an atomic two-slot storage read.
type Rehydrated struct {
	AccessToken string
	Snapshot    *domainauth.Snapshot
}

// CredentialStore is durable client storage with two independent slots:
// the opaque access token, and a JSON session snapshot that must never
// contain token material. Rehydrate reads both slots together so callers
// can validate cross-slot consistency in one step.
type CredentialStore interface {
	SaveToken(ctx context.Context, token string) error
	SaveSnapshot(ctx context.Context, snap domainauth.Snapshot) error
	Rehydrate(ctx context.Context) (Rehydrated, error)
	// Purge removes both slots. Purging an empty store is a no-op.
	Purge(ctx context.Context) error
}

// RoleMapper extracts the application role from a provider-specific claims
// payload. Adapters decide the claim shape (flat field, groups list, nested
// object) and map it onto the closed role enumeration.
type RoleMapper interface {
	Map(claims map[string]any) (domainauth.Role, error)
}
