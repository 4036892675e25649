package devauth

// Package devauth provides a config-driven IdentityProvider for local
// development. It verifies credentials against a static user table and
// issues signed JWT access tokens so downstream consumers see realistic
// bearer credentials without a remote identity endpoint.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/m007/school-ui-api/internal/domain/auth"
	"github.com/m007/school-ui-api/internal/ports"
)

// ErrInvalidCredentials is returned for an unknown email or wrong password.
// One error for both cases, so the response does not leak which was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// dummyHash is a bcrypt hash of an unguessable throwaway value, compared
// against when the email is unknown so both rejection paths cost the same.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// User is one seeded dev account. Password is plaintext in dev config and
// hashed at provider construction.
type User struct {
	ID       string
	Name     string
	Email    string
	Password string
	Role     string
}

// Config controls the dev identity provider.
type Config struct {
	Users []User
	// SigningKey signs the issued JWTs; required.
	SigningKey string
	// TokenTTL defaults to 8h when zero.
	TokenTTL time.Duration
}

type seededUser struct {
	id           string
	name         string
	email        string
	role         string
	passwordHash []byte
}

// Provider implements ports.IdentityProvider for local development.
type Provider struct {
	users      map[string]seededUser
	signingKey []byte
	tokenTTL   time.Duration
	creds      ports.CredentialStore
}

// Factory holds the hashed user table so per-session Providers can be minted
// without re-running bcrypt for every seeded account.
type Factory struct {
	users      map[string]seededUser
	signingKey []byte
	tokenTTL   time.Duration
}

// NewFactory hashes the configured passwords once.
func NewFactory(cfg Config) (*Factory, error) {
	if cfg.SigningKey == "" {
		return nil, errors.New("devauth: SigningKey is required")
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = 8 * time.Hour
	}

	users := make(map[string]seededUser, len(cfg.Users))
	for _, u := range cfg.Users {
		if u.Email == "" || u.Password == "" {
			return nil, fmt.Errorf("devauth: user %q needs email and password", u.Name)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("devauth: hash password for %s: %w", u.Email, err)
		}
		id := u.ID
		if id == "" {
			id = uuid.NewString()
		}
		users[u.Email] = seededUser{
			id:           id,
			name:         u.Name,
			email:        u.Email,
			role:         u.Role,
			passwordHash: hash,
		}
	}

	return &Factory{
		users:      users,
		signingKey: []byte(cfg.SigningKey),
		tokenTTL:   ttl,
	}, nil
}

// Provider binds the shared user table to one session's credential store.
func (f *Factory) Provider(creds ports.CredentialStore) (*Provider, error) {
	if creds == nil {
		return nil, errors.New("devauth: credential store is required")
	}
	return &Provider{
		users:      f.users,
		signingKey: f.signingKey,
		tokenTTL:   f.tokenTTL,
		creds:      creds,
	}, nil
}

// NewProvider hashes the configured passwords and builds the provider.
func NewProvider(cfg Config, creds ports.CredentialStore) (*Provider, error) {
	f, err := NewFactory(cfg)
	if err != nil {
		return nil, err
	}
	return f.Provider(creds)
}

// Login verifies the credential pair, mints a JWT access token, and persists
// both cache slots before returning.
func (p *Provider) Login(ctx context.Context, creds domainauth.Credentials) (ports.LoginResult, error) {
	u, ok := p.users[creds.Email]
	if !ok {
		// Burn a comparison anyway to keep timing comparable.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(creds.Password))
		return ports.LoginResult{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(creds.Password)); err != nil {
		return ports.LoginResult{}, ErrInvalidCredentials
	}

	token, err := p.mintToken(u)
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("devauth: sign token: %w", err)
	}

	ident := &domainauth.Identity{ID: u.id, Name: u.name, Email: u.email, Role: u.role}
	if err := p.creds.SaveToken(ctx, token); err != nil {
		return ports.LoginResult{}, fmt.Errorf("devauth: cache token: %w", err)
	}
	user := domainauth.User{
		ID:      u.id,
		Name:    u.name,
		Email:   u.email,
		Role:    domainauth.Role(u.role),
		Profile: domainauth.Role(u.role),
	}
	if err := p.creds.SaveSnapshot(ctx, domainauth.Snapshot{User: &user, IsAuthenticated: true}); err != nil {
		return ports.LoginResult{}, fmt.Errorf("devauth: cache snapshot: %w", err)
	}

	return ports.LoginResult{User: ident, AccessToken: token}, nil
}

func (p *Provider) mintToken(u seededUser) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   u.id,
		"name":  u.name,
		"email": u.email,
		"role":  u.role,
		"iat":   now.Unix(),
		"exp":   now.Add(p.tokenTTL).Unix(),
		"iss":   "school-ui-api/devauth",
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.signingKey)
}

// Logout purges the local credential cache.
func (p *Provider) Logout(ctx context.Context) error {
	return p.creds.Purge(ctx)
}

// IsAuthenticated reports whether both cache slots hold a live login.
func (p *Provider) IsAuthenticated(ctx context.Context) bool {
	rh, err := p.creds.Rehydrate(ctx)
	return err == nil && rh.AccessToken != "" && rh.Snapshot != nil && rh.Snapshot.IsAuthenticated
}

// CurrentUser returns the cached identity, or nil.
func (p *Provider) CurrentUser(ctx context.Context) *domainauth.User {
	rh, err := p.creds.Rehydrate(ctx)
	if err != nil || rh.Snapshot == nil {
		return nil
	}
	return rh.Snapshot.User
}

// AccessToken returns the cached token, or "".
func (p *Provider) AccessToken(ctx context.Context) string {
	rh, err := p.creds.Rehydrate(ctx)
	if err != nil {
		return ""
	}
	return rh.AccessToken
}

var _ ports.IdentityProvider = (*Provider)(nil)
