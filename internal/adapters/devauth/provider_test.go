package devauth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/m007/school-ui-api/internal/domain/auth"
	mockauth "github.com/m007/school-ui-api/internal/mocks/auth"
)

func newTestProvider(t *testing.T) (*Provider, *mockauth.MemoryCredentialStore) {
	t.Helper()
	creds := &mockauth.MemoryCredentialStore{}
	p, err := NewProvider(Config{
		SigningKey: "test-signing-key",
		TokenTTL:   time.Hour,
		Users: []User{
			{ID: "u-1", Name: "Dev Teacher", Email: "teacher@m007.com", Password: "changeme", Role: "teacher"},
			{Name: "Dev Admin", Email: "admin@m007.com", Password: "root", Role: "admin"},
		},
	}, creds)
	require.NoError(t, err)
	return p, creds
}

func TestLogin_Success(t *testing.T) {
	p, creds := newTestProvider(t)
	ctx := context.Background()

	res, err := p.Login(ctx, domainauth.Credentials{Email: "teacher@m007.com", Password: "changeme"})
	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.Equal(t, "u-1", res.User.ID)
	assert.Equal(t, "teacher", res.User.Role)
	assert.NotEmpty(t, res.AccessToken)

	assert.Equal(t, res.AccessToken, creds.Token())
	snap := creds.Snapshot()
	require.NotNil(t, snap)
	assert.True(t, snap.IsAuthenticated)
	require.NotNil(t, snap.User)
	assert.Equal(t, domainauth.RoleTeacher, snap.User.Role)
	assert.Equal(t, snap.User.Role, snap.User.Profile)
}

func TestLogin_TokenClaims(t *testing.T) {
	p, _ := newTestProvider(t)

	res, err := p.Login(context.Background(), domainauth.Credentials{Email: "admin@m007.com", Password: "root"})
	require.NoError(t, err)

	parsed, err := jwt.Parse(res.AccessToken, func(*jwt.Token) (any, error) {
		return []byte("test-signing-key"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "admin@m007.com", claims["email"])
	assert.Equal(t, "admin", claims["role"])
	assert.NotEmpty(t, claims["sub"])
}

func TestLogin_WrongPassword(t *testing.T) {
	p, creds := newTestProvider(t)

	_, err := p.Login(context.Background(), domainauth.Credentials{Email: "teacher@m007.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, creds.Token())
	assert.Nil(t, creds.Snapshot())
}

func TestLogin_UnknownEmail(t *testing.T) {
	p, _ := newTestProvider(t)

	_, err := p.Login(context.Background(), domainauth.Credentials{Email: "ghost@m007.com", Password: "changeme"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout_PurgesCache(t *testing.T) {
	p, creds := newTestProvider(t)
	ctx := context.Background()

	_, err := p.Login(ctx, domainauth.Credentials{Email: "teacher@m007.com", Password: "changeme"})
	require.NoError(t, err)
	require.True(t, p.IsAuthenticated(ctx))

	require.NoError(t, p.Logout(ctx))
	assert.False(t, p.IsAuthenticated(ctx))
	assert.Empty(t, creds.Token())
	assert.Nil(t, creds.Snapshot())
}

func TestCacheReaders(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	assert.False(t, p.IsAuthenticated(ctx))
	assert.Nil(t, p.CurrentUser(ctx))
	assert.Empty(t, p.AccessToken(ctx))

	res, err := p.Login(ctx, domainauth.Credentials{Email: "admin@m007.com", Password: "root"})
	require.NoError(t, err)

	assert.True(t, p.IsAuthenticated(ctx))
	u := p.CurrentUser(ctx)
	require.NotNil(t, u)
	assert.Equal(t, "admin@m007.com", u.Email)
	assert.Equal(t, res.AccessToken, p.AccessToken(ctx))
}

func TestNewProvider_Validation(t *testing.T) {
	creds := &mockauth.MemoryCredentialStore{}

	_, err := NewProvider(Config{}, creds)
	assert.Error(t, err)

	_, err = NewProvider(Config{SigningKey: "k"}, nil)
	assert.Error(t, err)

	_, err = NewProvider(Config{
		SigningKey: "k",
		Users:      []User{{Name: "No Email", Password: "x"}},
	}, creds)
	assert.Error(t, err)
}
