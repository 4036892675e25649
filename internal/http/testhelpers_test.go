package httpx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	domainauth "github.com/m007/school-ui-api/internal/domain/auth"
	mockauth "github.com/m007/school-ui-api/internal/mocks/auth"
	"github.com/m007/school-ui-api/internal/ports"
	"github.com/m007/school-ui-api/internal/session"
)

// testAccount is one seeded login for the fake identity provider.
type testAccount struct {
	ID       string
	Name     string
	Password string
	Role     string
}

var testAccounts = map[string]testAccount{
	"teacher@m007.com": {ID: "u-1", Name: "Rosa Lima", Password: "changeme", Role: "teacher"},
	"admin@m007.com":   {ID: "u-2", Name: "Root Admin", Password: "root", Role: "admin"},
	"student@m007.com": {ID: "u-3", Name: "Ana Pereira", Password: "letmein", Role: "student"},
}

// newTestSessionManager builds a Manager whose stores talk to an in-memory
// credential store and a fake identity provider seeded with testAccounts.
func newTestSessionManager() *session.Manager {
	return session.NewManager(func(string) *session.Store {
		creds := mockauth.NewMemoryCredentialStore()
		provider := mockauth.NewMockIdentityProvider(creds)
		provider.LoginFunc = func(ctx context.Context, c domainauth.Credentials) (ports.LoginResult, error) {
			acct, ok := testAccounts[c.Email]
			if !ok || acct.Password != c.Password {
				return ports.LoginResult{}, fmt.Errorf("invalid email or password")
			}
			ident := domainauth.Identity{ID: acct.ID, Name: acct.Name, Email: c.Email, Role: acct.Role}
			if err := creds.SaveToken(ctx, "tok-"+acct.ID); err != nil {
				return ports.LoginResult{}, err
			}
			role, err := domainauth.ParseRole(acct.Role)
			if err == nil {
				user := domainauth.NewUser(ident.ID, ident.Name, ident.Email, role)
				if err := creds.SaveSnapshot(ctx, domainauth.Snapshot{User: &user, IsAuthenticated: true}); err != nil {
					return ports.LoginResult{}, err
				}
			}
			return ports.LoginResult{User: &ident, AccessToken: "tok-" + acct.ID}, nil
		}
		return session.NewStore(provider, creds)
	})
}

// newTestRouter builds the full router over a fresh test session manager.
func newTestRouter(t *testing.T) (http.Handler, *session.Manager) {
	t.Helper()

	sessions := newTestSessionManager()
	router, err := NewRouter(RouterServices{
		Sessions: sessions,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return router, sessions
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newBlockingSessionManager builds a Manager whose provider blocks inside
// Login until release is closed, closing started once the call is in flight.
// Lets guard tests observe the loading state deterministically.
func newBlockingSessionManager(release <-chan struct{}, started chan<- struct{}) *session.Manager {
	var once sync.Once
	return session.NewManager(func(string) *session.Store {
		creds := mockauth.NewMemoryCredentialStore()
		provider := mockauth.NewMockIdentityProvider(creds)
		provider.LoginFunc = func(context.Context, domainauth.Credentials) (ports.LoginResult, error) {
			once.Do(func() { close(started) })
			<-release
			return ports.LoginResult{}, fmt.Errorf("login aborted")
		}
		return session.NewStore(provider, creds)
	})
}

// loginAs performs a login for the given account and returns the sid cookie.
func loginAs(t *testing.T, sessions *session.Manager, email string) *http.Cookie {
	t.Helper()

	acct, ok := testAccounts[email]
	require.True(t, ok, "unknown test account %s", email)

	sid := "sid-" + acct.ID
	store := sessions.Get(context.Background(), sid)
	_, err := store.Login(context.Background(), email, acct.Password)
	require.NoError(t, err)

	return &http.Cookie{Name: sessionCookieName, Value: sid}
}
