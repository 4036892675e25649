package oauthidp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m007/school-ui-api/internal/adapters/claims"
	domainauth "github.com/m007/school-ui-api/internal/domain/auth"
	mockauth "github.com/m007/school-ui-api/internal/mocks/auth"
)

type discoveryDoc struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JwksURI               string `json:"jwks_uri"`
}

// newFakeIdentityServer serves OIDC discovery plus token and userinfo
// endpoints good enough for the password grant path.
func newFakeIdentityServer(t *testing.T, userinfo map[string]any) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(discoveryDoc{
			Issuer:                srv.URL,
			AuthorizationEndpoint: srv.URL + "/auth",
			TokenEndpoint:         srv.URL + "/token",
			UserinfoEndpoint:      srv.URL + "/userinfo",
			JwksURI:               srv.URL + "/jwks",
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostFormValue("grant_type") != "password" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.PostFormValue("password") != "s3cret" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-12345","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-12345" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(userinfo)
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(t *testing.T, userinfo map[string]any) (*Provider, *mockauth.MemoryCredentialStore) {
	t.Helper()
	srv := newFakeIdentityServer(t, userinfo)
	mapper, err := claims.NewJMESPathMapper("role", nil)
	require.NoError(t, err)
	store := &mockauth.MemoryCredentialStore{}
	p, err := NewProvider(Config{
		ClientID:     "school-ui",
		ClientSecret: "test-secret",
		DiscoveryURL: srv.URL,
		Scope:        "profile email",
		HTTPClient:   srv.Client(),
	}, mapper, store)
	require.NoError(t, err)
	return p, store
}

func TestNewProvider_Validation(t *testing.T) {
	mapper, err := claims.NewJMESPathMapper("role", nil)
	require.NoError(t, err)
	store := &mockauth.MemoryCredentialStore{}

	_, err = NewProvider(Config{DiscoveryURL: "http://example.com"}, mapper, store)
	assert.ErrorContains(t, err, "client ID")

	_, err = NewProvider(Config{ClientID: "c"}, mapper, store)
	assert.ErrorContains(t, err, "discovery URL")

	_, err = NewProvider(Config{ClientID: "c", DiscoveryURL: "http://example.com"}, nil, store)
	assert.ErrorContains(t, err, "role mapper")

	_, err = NewProvider(Config{ClientID: "c", DiscoveryURL: "http://example.com"}, mapper, nil)
	assert.ErrorContains(t, err, "credential store")
}

func TestLogin_Success(t *testing.T) {
	p, store := newTestProvider(t, map[string]any{
		"sub":   "u-77",
		"name":  "Ada Park",
		"email": "ada@m007.com",
		"role":  "academic_admin",
	})

	res, err := p.Login(context.Background(), domainauth.Credentials{Email: "ada@m007.com", Password: "s3cret"})
	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.Equal(t, "u-77", res.User.ID)
	assert.Equal(t, "academic_admin", res.User.Role)
	assert.Equal(t, "at-12345", res.AccessToken)

	assert.Equal(t, "at-12345", store.Token())
	snap := store.Snapshot()
	require.NotNil(t, snap)
	assert.True(t, snap.IsAuthenticated)
	require.NotNil(t, snap.User)
	assert.Equal(t, domainauth.RoleAcademicAdmin, snap.User.Role)
	assert.Equal(t, snap.User.Role, snap.User.Profile)
}

func TestLogin_BadPassword(t *testing.T) {
	p, store := newTestProvider(t, map[string]any{"sub": "u-77", "role": "teacher"})

	_, err := p.Login(context.Background(), domainauth.Credentials{Email: "ada@m007.com", Password: "wrong"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "password grant")
	assert.Empty(t, store.Token())
	assert.Nil(t, store.Snapshot())
}

func TestLogin_UnmappableRole(t *testing.T) {
	p, store := newTestProvider(t, map[string]any{"sub": "u-77", "role": "superuser"})

	_, err := p.Login(context.Background(), domainauth.Credentials{Email: "ada@m007.com", Password: "s3cret"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "map role")
	assert.Empty(t, store.Token())
}

func TestLogin_EmailFallsBackToCredentials(t *testing.T) {
	p, _ := newTestProvider(t, map[string]any{"sub": "u-9", "role": "student"})

	res, err := p.Login(context.Background(), domainauth.Credentials{Email: "kid@m007.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "kid@m007.com", res.User.Email)
}

func TestLogout_PurgesCache(t *testing.T) {
	p, store := newTestProvider(t, map[string]any{"sub": "u-77", "role": "teacher"})
	ctx := context.Background()

	_, err := p.Login(ctx, domainauth.Credentials{Email: "ada@m007.com", Password: "s3cret"})
	require.NoError(t, err)
	require.True(t, p.IsAuthenticated(ctx))

	require.NoError(t, p.Logout(ctx))
	assert.False(t, p.IsAuthenticated(ctx))
	assert.Empty(t, store.Token())
	assert.Nil(t, store.Snapshot())
}
