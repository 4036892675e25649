package oauthidp

// Package oauthidp authenticates against an OIDC-discoverable OAuth2 server
// using the resource-owner password grant, for deployments where the school
// identity lives in a central SSO realm rather than the dashboard backend.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/m007/school-ui-api/internal/domain/auth"
	"github.com/m007/school-ui-api/internal/ports"
)

// Config holds the OAuth2/OIDC client settings.
type Config struct {
	ClientID     string
	ClientSecret string
	// DiscoveryURL is the issuer or its .well-known/openid-configuration URL.
	DiscoveryURL string
	Scope        string
	HTTPClient   *http.Client // Optional, defaults to a 30s-timeout client
}

// Provider implements ports.IdentityProvider over the password grant.
type Provider struct {
	config       *oauth2.Config
	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
	mapper       ports.RoleMapper
	creds        ports.CredentialStore
}

// Factory mints per-session Providers that share one discovery result, so a
// new browser session does not trigger a new round trip to the issuer.
type Factory struct {
	config       *oauth2.Config
	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
	mapper       ports.RoleMapper
}

// NewFactory runs OIDC discovery once and configures the OAuth2 client from
// the discovered endpoints.
func NewFactory(cfg Config, mapper ports.RoleMapper) (*Factory, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("oauthidp: client ID is required")
	}
	if cfg.DiscoveryURL == "" {
		return nil, errors.New("oauthidp: discovery URL is required")
	}
	if mapper == nil {
		return nil, errors.New("oauthidp: role mapper is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(cfg.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oauthidp: discovery: %w", err)
	}

	return &Factory{
		oidcProvider: op,
		verifier:     op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		mapper:       mapper,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint:     op.Endpoint(),
		},
	}, nil
}

// Provider binds the shared client to one session's credential store.
func (f *Factory) Provider(creds ports.CredentialStore) (*Provider, error) {
	if creds == nil {
		return nil, errors.New("oauthidp: credential store is required")
	}
	return &Provider{
		config:       f.config,
		oidcProvider: f.oidcProvider,
		verifier:     f.verifier,
		mapper:       f.mapper,
		creds:        creds,
	}, nil
}

// NewProvider runs discovery and returns a Provider bound to creds.
func NewProvider(cfg Config, mapper ports.RoleMapper, creds ports.CredentialStore) (*Provider, error) {
	f, err := NewFactory(cfg, mapper)
	if err != nil {
		return nil, err
	}
	return f.Provider(creds)
}

// Login performs the password grant, resolves the identity claims, and
// persists the token and snapshot before returning.
func (p *Provider) Login(ctx context.Context, in domainauth.Credentials) (ports.LoginResult, error) {
	token, err := p.config.PasswordCredentialsToken(ctx, in.Email, in.Password)
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("oauthidp: password grant: %w", err)
	}

	claims, err := p.resolveClaims(ctx, token)
	if err != nil {
		return ports.LoginResult{}, err
	}

	role, err := p.mapper.Map(claims)
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("oauthidp: map role: %w", err)
	}

	ident := &domainauth.Identity{
		ID:    stringClaim(claims, "sub"),
		Name:  stringClaim(claims, "name"),
		Email: stringClaim(claims, "email"),
		Role:  string(role),
	}
	if ident.Email == "" {
		ident.Email = in.Email
	}

	if err := p.creds.SaveToken(ctx, token.AccessToken); err != nil {
		return ports.LoginResult{}, fmt.Errorf("oauthidp: cache token: %w", err)
	}
	user := domainauth.User{
		ID:      ident.ID,
		Name:    ident.Name,
		Email:   ident.Email,
		Role:    role,
		Profile: role,
	}
	if err := p.creds.SaveSnapshot(ctx, domainauth.Snapshot{User: &user, IsAuthenticated: true}); err != nil {
		return ports.LoginResult{}, fmt.Errorf("oauthidp: cache snapshot: %w", err)
	}

	return ports.LoginResult{User: ident, AccessToken: token.AccessToken}, nil
}

// resolveClaims prefers the verified ID token; it falls back to the UserInfo
// endpoint when the grant returned no id_token (common for password grants
// without the openid scope).
func (p *Provider) resolveClaims(ctx context.Context, token *oauth2.Token) (map[string]any, error) {
	if raw, ok := token.Extra("id_token").(string); ok && raw != "" {
		idTok, err := p.verifier.Verify(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("oauthidp: verify id_token: %w", err)
		}
		var claims map[string]any
		if err := idTok.Claims(&claims); err != nil {
			return nil, fmt.Errorf("oauthidp: parse id_token claims: %w", err)
		}
		return claims, nil
	}

	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return nil, fmt.Errorf("oauthidp: fetch user info: %w", err)
	}
	var claims map[string]any
	if err := ui.Claims(&claims); err != nil {
		return nil, fmt.Errorf("oauthidp: decode user info: %w", err)
	}
	return claims, nil
}

// Logout purges the local credential cache. The SSO session at the identity
// server is left alone.
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

func stringClaim(claims map[string]any, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

var _ ports.IdentityProvider = (*Provider)(nil)
