package restidp

// Package restidp implements ports.IdentityProvider against the school's
// remote identity endpoint: a JSON login API returning
// {success, message?, data?: {user, access_token}}.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	domainauth "github.com/m007/school-ui-api/internal/domain/auth"
	"github.com/m007/school-ui-api/internal/ports"
)

// ErrLoginRejected is returned when the endpoint reports success=false with
// no message of its own.
var ErrLoginRejected = errors.New("login rejected by identity provider")

// Config controls the REST identity provider.
type Config struct {
	// BaseURL of the identity endpoint, e.g. "https://id.m007.com".
	BaseURL string
	// HTTPClient is optional; http.DefaultClient is used when nil.
	// No timeout is applied here beyond what the client carries.
	HTTPClient *http.Client
}

// Provider is an HTTP client for the remote identity endpoint. It persists
// the access token and identity snapshot to its credential store on login,
// which is the cache the synchronous readers serve from.
type Provider struct {
	baseURL string
	client  *http.Client
	creds   ports.CredentialStore
}

// NewProvider constructs a REST identity provider bound to a credential store.
func NewProvider(cfg Config, creds ports.CredentialStore) (*Provider, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("restidp: BaseURL is required")
	}
	if creds == nil {
		return nil, errors.New("restidp: credential store is required")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &Provider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
		creds:   creds,
	}, nil
}

// loginResponse is the wire shape of the identity endpoint's login reply.
type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *struct {
		User        *domainauth.Identity `json:"user"`
		AccessToken string               `json:"access_token"`
	} `json:"data,omitempty"`
}

// Login submits the credential pair and persists the returned token and
// identity snapshot before handing the result to the caller.
func (p *Provider) Login(ctx context.Context, creds domainauth.Credentials) (ports.LoginResult, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("marshal credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("read login response: %w", err)
	}

	var decoded loginResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return ports.LoginResult{}, fmt.Errorf("decode login response (status %d): %w", resp.StatusCode, err)
	}

	if !decoded.Success {
		if decoded.Message != "" {
			return ports.LoginResult{}, errors.New(decoded.Message)
		}
		return ports.LoginResult{}, ErrLoginRejected
	}

	result := ports.LoginResult{}
	if decoded.Data != nil {
		result.User = decoded.Data.User
		result.AccessToken = decoded.Data.AccessToken
	}

	// Cache write: token first, then the identity snapshot. The role is
	// persisted as received; rehydration validates it against the enum.
	if result.AccessToken != "" {
		if err := p.creds.SaveToken(ctx, result.AccessToken); err != nil {
			return ports.LoginResult{}, fmt.Errorf("cache access token: %w", err)
		}
	}
	if result.User != nil {
		user := domainauth.User{
			ID:      result.User.ID,
			Name:    result.User.Name,
			Email:   result.User.Email,
			Role:    domainauth.Role(result.User.Role),
			Profile: domainauth.Role(result.User.Role),
		}
		snap := domainauth.Snapshot{User: &user, IsAuthenticated: result.AccessToken != ""}
		if err := p.creds.SaveSnapshot(ctx, snap); err != nil {
			return ports.LoginResult{}, fmt.Errorf("cache identity snapshot: %w", err)
		}
	}

	return result, nil
}

// Logout purges the local credential cache; it never contacts the endpoint.
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
