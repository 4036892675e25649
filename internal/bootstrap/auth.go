package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/m007/school-ui-api/config"
	"github.com/m007/school-ui-api/internal/adapters/claims"
	"github.com/m007/school-ui-api/internal/adapters/devauth"
	"github.com/m007/school-ui-api/internal/adapters/oauthidp"
	"github.com/m007/school-ui-api/internal/adapters/restidp"
	redisadapter "github.com/m007/school-ui-api/internal/adapters/redis"
	domainauth "github.com/m007/school-ui-api/internal/domain/auth"
	"github.com/m007/school-ui-api/internal/ports"
	"github.com/m007/school-ui-api/internal/session"
)

// AuthConfig contains configuration for the session layer.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewSessionManager wires the identity provider for the configured auth mode
// and returns a manager that builds one session store per browser session.
// Each store gets its own Redis-backed credential slots keyed by session id.
func NewSessionManager(cfg AuthConfig) (*session.Manager, error) {
	if cfg.RedisClient == nil {
		return nil, errors.New("session manager requires a redis client")
	}

	credsFor := func(sessionID string) ports.CredentialStore {
		return redisadapter.NewCredentialStoreWithTTL(cfg.RedisClient, sessionID, cfg.Auth.SessionTTL)
	}

	var factory session.StoreFactory

	switch cfg.Auth.Mode {
	case config.AuthModeRemote:
		remote := cfg.Auth.Remote
		if strings.TrimSpace(remote.BaseURL) == "" {
			return nil, errors.New("remote auth mode requires REMOTE_AUTH_BASE_URL")
		}
		factory = func(sessionID string) *session.Store {
			creds := credsFor(sessionID)
			prov, err := restidp.NewProvider(restidp.Config{BaseURL: remote.BaseURL}, creds)
			if err != nil {
				panic(err) // config already validated, creds is never nil
			}
			return session.NewStore(prov, creds)
		}

	case config.AuthModeOAuth:
		oauthFactory, err := buildOAuthFactory(cfg.Auth.OAuth)
		if err != nil {
			return nil, err
		}
		factory = func(sessionID string) *session.Store {
			creds := credsFor(sessionID)
			prov, err := oauthFactory.Provider(creds)
			if err != nil {
				panic(err) // creds is never nil
			}
			return session.NewStore(prov, creds)
		}

	case config.AuthModeMock:
		devFactory, err := devauth.NewFactory(devauth.Config{
			Users:      demoUsers(cfg.Auth.DevAuth.Password),
			SigningKey: cfg.Auth.DevAuth.SigningKey,
			TokenTTL:   cfg.Auth.DevAuth.TokenTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("build dev auth provider: %w", err)
		}
		if cfg.Logger != nil {
			cfg.Logger.Warn("using mock authentication with seeded demo accounts; not for production")
		}
		factory = func(sessionID string) *session.Store {
			creds := credsFor(sessionID)
			prov, err := devFactory.Provider(creds)
			if err != nil {
				panic(err) // creds is never nil
			}
			return session.NewStore(prov, creds)
		}

	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}

	return session.NewManager(factory), nil
}

// buildOAuthFactory runs OIDC discovery once and prepares the claims-to-role
// mapper shared by every per-session provider.
func buildOAuthFactory(oauth config.OAuthConfig) (*oauthidp.Factory, error) {
	if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		return nil, errors.New("oauth mode requires OAUTH_DISCOVERY_URL, OAUTH_CLIENT_ID and OAUTH_CLIENT_SECRET")
	}

	aliases := make(map[string]domainauth.Role, len(oauth.RoleAliases))
	for raw, target := range oauth.RoleAliases {
		role, err := domainauth.ParseRole(target)
		if err != nil {
			return nil, fmt.Errorf("role alias %q: %w", raw, err)
		}
		aliases[raw] = role
	}

	mapper, err := claims.NewJMESPathMapper(oauth.RoleExpression, aliases)
	if err != nil {
		return nil, fmt.Errorf("build role mapper: %w", err)
	}

	factory, err := oauthidp.NewFactory(oauthidp.Config{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		DiscoveryURL: oauth.DiscoveryURL,
		Scope:        oauth.Scope,
	}, mapper)
	if err != nil {
		return nil, fmt.Errorf("build oauth provider: %w", err)
	}
	return factory, nil
}

// demoUsers seeds one account per role so every guard path can be exercised
// locally. All accounts share the configured dev password.
func demoUsers(password string) []devauth.User {
	return []devauth.User{
		{ID: "u-1", Name: "Root Admin", Email: "admin@m007.com", Password: password, Role: string(domainauth.RoleAdmin)},
		{ID: "u-2", Name: "Clara Mendes", Email: "academic@m007.com", Password: password, Role: string(domainauth.RoleAcademicAdmin)},
		{ID: "u-3", Name: "Rosa Lima", Email: "teacher@m007.com", Password: password, Role: string(domainauth.RoleTeacher)},
		{ID: "u-4", Name: "Ana Pereira", Email: "student@m007.com", Password: password, Role: string(domainauth.RoleStudent)},
	}
}
