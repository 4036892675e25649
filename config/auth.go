package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeRemote logs in against the remote school identity endpoint.
	AuthModeRemote AuthMode = "remote"
	// AuthModeOAuth uses the OAuth2 password grant against an OIDC issuer.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses local dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "remote", "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: remote, oauth, mock)", v)
	}
}

// RemoteAuthConfig contains the remote identity endpoint configuration.
// Used when AUTH_MODE=remote.
type RemoteAuthConfig struct {
	// BaseURL of the school identity service, e.g. "https://id.m007.com".
	BaseURL string `env:"BASE_URL"`
}

// OAuthConfig contains OAuth/OIDC configuration. Used when AUTH_MODE=oauth.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"school-ui"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"school-ui"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`

	// RoleExpression is the JMESPath expression that locates the role inside
	// the provider's claims, e.g. "role" or "realm_access.roles".
	RoleExpression string `env:"ROLE_EXPRESSION" envDefault:"role"`

	// RoleAliases maps provider-specific role values (group DNs, realm role
	// names) onto the application roles. Example:
	// "school-admins:admin;faculty:teacher".
	RoleAliases map[string]string `env:"ROLE_ALIASES" envSeparator:";" envKeyValSeparator:":"`
}

// DevAuthConfig controls local dev authentication.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	// SigningKey signs the locally issued JWT access tokens.
	SigningKey string `env:"SIGNING_KEY" envDefault:"dev-only-signing-key"`

	// Password shared by the seeded demo accounts.
	Password string `env:"PASSWORD" envDefault:"changeme"`

	// TokenTTL is the lifetime of issued dev tokens.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"8h"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which identity provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"mock"`

	// SessionTTL bounds the credential slots in Redis and the sid cookie.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"8h"`

	// Remote configuration (used when Mode=remote).
	Remote RemoteAuthConfig `envPrefix:"REMOTE_AUTH_"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = 8 * time.Hour
	}
	if a.DevAuth.TokenTTL <= 0 {
		a.DevAuth.TokenTTL = 8 * time.Hour
	}
}
