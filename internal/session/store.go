// Package session implements the authentication session store: the single
// authority for "who is logged in and with what role". A Store mediates
// between an identity provider and durable credential storage; the HTTP
// route guard only ever reads Store state, never storage directly.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	domainauth "github.com/m007/school-ui-api/internal/domain/auth"
	"github.com/m007/school-ui-api/internal/ports"
)

var (
	// ErrLoginInFlight is returned when Login is called while another login
	// attempt on the same store has not resolved yet.
	ErrLoginInFlight = errors.New("login already in progress")

	// ErrIncompleteResponse is returned when the identity provider reports
	// success but omits the user record or the access token.
	ErrIncompleteResponse = errors.New("incomplete server response")
)

// State is a read-only snapshot of the store, taken under one lock so the
// route guard sees consistent values.
type State struct {
	User            *domainauth.User
	IsAuthenticated bool
	IsLoading       bool
	Err             error
}

// Store holds the authentication state for one browser session.
// Construct with NewStore; the zero value is not usable.
type Store struct {
	provider ports.IdentityProvider
	creds    ports.CredentialStore

	mu              sync.Mutex
	user            *domainauth.User
	isAuthenticated bool
	isLoading       bool
	lastErr         error
	loginInFlight   bool
}

// NewStore creates an empty, unauthenticated store.
func NewStore(provider ports.IdentityProvider, creds ports.CredentialStore) *Store {
	return &Store{provider: provider, creds: creds}
}

// Login submits the credential pair to the identity provider and, on success,
// persists the access token, records the validated user (with the profile
// alias mirroring the role), and returns the role for post-login navigation.
//
// The token write to durable storage happens before the authenticated flip,
// so any reader observing IsAuthenticated()==true may assume the token is
// retrievable from storage. The provider adapter persists the token itself
// during Login; the store re-writes it afterwards so the ordering holds even
// if the adapter's write did not take effect.
//
// A second Login while one is outstanding is rejected with ErrLoginInFlight
// rather than racing (see DESIGN.md).
func (s *Store) Login(ctx context.Context, email, password string) (domainauth.Role, error) {
	s.mu.Lock()
	if s.loginInFlight {
		s.mu.Unlock()
		return "", ErrLoginInFlight
	}
	s.loginInFlight = true
	s.isLoading = true
	s.lastErr = nil
	s.mu.Unlock()

	user, role, err := s.doLogin(ctx, domainauth.Credentials{Email: email, Password: password})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginInFlight = false
	s.isLoading = false
	if err != nil {
		s.user = nil
		s.isAuthenticated = false
		s.lastErr = err
		return "", err
	}
	s.user = user
	s.isAuthenticated = true
	s.lastErr = nil
	return role, nil
}

// doLogin performs the provider call and persistence outside the state lock.
func (s *Store) doLogin(ctx context.Context, creds domainauth.Credentials) (*domainauth.User, domainauth.Role, error) {
	res, err := s.provider.Login(ctx, creds)
	if err != nil {
		return nil, "", err
	}
	if res.User == nil || res.AccessToken == "" {
		return nil, "", ErrIncompleteResponse
	}

	role, err := domainauth.ParseRole(res.User.Role)
	if err != nil {
		return nil, "", err
	}

	// Re-write the token slot. The provider adapter already persisted it
	// during Login; this guarantees the happens-before ordering even if
	// that write did not take effect.
	if err := s.creds.SaveToken(ctx, res.AccessToken); err != nil {
		return nil, "", fmt.Errorf("persist access token: %w", err)
	}

	user := domainauth.NewUser(res.User.ID, res.User.Name, res.User.Email, role)
	if err := s.creds.SaveSnapshot(ctx, domainauth.Snapshot{User: &user, IsAuthenticated: true}); err != nil {
		return nil, "", fmt.Errorf("persist session snapshot: %w", err)
	}

	return &user, role, nil
}

// Logout purges durable token and identity storage via the provider, then
// resets all fields to their initial values. Calling it when already logged
// out only re-clears storage.
func (s *Store) Logout(ctx context.Context) error {
	err := s.provider.Logout(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.isAuthenticated = false
	s.isLoading = false
	s.lastErr = nil
	return err
}

// CheckAuth rehydrates the store from durable storage without contacting the
// identity provider. Authenticated means: token present AND cached identity
// present AND the identity's role is valid. A missing token triggers a purge
// of any stale identity cache; an invalid role is treated as a corrupted
// session and forces logout. CheckAuth never records an error in store state;
// it returns one only when storage itself could not be read, so the caller
// can retry rehydration later instead of treating the session as settled.
func (s *Store) CheckAuth(ctx context.Context) error {
	rh, err := s.creds.Rehydrate(ctx)
	if err != nil {
		s.setUnauthenticated()
		return fmt.Errorf("rehydrate session: %w", err)
	}

	if rh.AccessToken == "" {
		// Token gone: proactively purge any leftover identity cache.
		_ = s.provider.Logout(ctx)
		s.setUnauthenticated()
		return nil
	}

	if rh.Snapshot == nil || rh.Snapshot.User == nil {
		s.setUnauthenticated()
		return nil
	}

	if !rh.Snapshot.User.Role.Valid() {
		// Corrupted session: never leave it half-authenticated.
		_ = s.Logout(ctx)
		return nil
	}

	user := *rh.Snapshot.User
	user.Profile = user.Role // re-assert the mirror on rehydration

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.isAuthenticated = true
	return nil
}

// ClearError resets the last login failure; no other side effects.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
}

func (s *Store) setUnauthenticated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.isAuthenticated = false
}

// State returns a consistent snapshot of the store for the route guard.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	var user *domainauth.User
	if s.user != nil {
		u := *s.user
		user = &u
	}
	return State{
		User:            user,
		IsAuthenticated: s.isAuthenticated,
		IsLoading:       s.isLoading,
		Err:             s.lastErr,
	}
}

// User returns a copy of the current user, or nil when unauthenticated.
func (s *Store) User() *domainauth.User { return s.State().User }

// IsAuthenticated reports whether a validated identity and token are present.
func (s *Store) IsAuthenticated() bool { return s.State().IsAuthenticated }

// IsLoading reports whether a login call is outstanding.
func (s *Store) IsLoading() bool { return s.State().IsLoading }

// Err returns the last login failure, if any.
func (s *Store) Err() error { return s.State().Err }
