// Package claims maps identity-provider claim payloads onto the closed
// application role set. The extraction expression is operator-configurable
// JMESPath so deployments can adapt to whatever claim shape their provider
// emits (flat field, groups list, nested object) without code changes.
package claims

import (
	"errors"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainauth "github.com/m007/school-ui-api/internal/domain/auth"
	"github.com/m007/school-ui-api/internal/ports"
)

// ErrNoRoleClaim is returned when the expression matches nothing in the
// claims payload.
var ErrNoRoleClaim = errors.New("claims: no role claim found")

// JMESPathMapper extracts a role using a JMESPath expression evaluated
// against the raw claims map. An optional alias table translates
// provider-side role names (e.g. group DNs) to application roles before
// parsing.
type JMESPathMapper struct {
	expr    string
	aliases map[string]domainauth.Role
}

// NewJMESPathMapper validates the expression up front so a bad config fails
// at startup rather than on first login.
func NewJMESPathMapper(expr string, aliases map[string]domainauth.Role) (*JMESPathMapper, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, errors.New("claims: role expression is required")
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, fmt.Errorf("claims: invalid role expression: %w", err)
	}
	return &JMESPathMapper{expr: expr, aliases: aliases}, nil
}

// Map evaluates the expression against the claims payload. A string result
// is parsed directly; a list result is scanned for the first entry that
// resolves to a known role, which covers group-membership claims.
func (m *JMESPathMapper) Map(claims map[string]any) (domainauth.Role, error) {
	res, err := jmespath.Search(m.expr, claims)
	if err != nil {
		return "", fmt.Errorf("claims: evaluate role expression: %w", err)
	}

	switch v := res.(type) {
	case nil:
		return "", ErrNoRoleClaim
	case string:
		return m.resolve(v)
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				continue
			}
			if role, err := m.resolve(s); err == nil {
				return role, nil
			}
		}
		return "", ErrNoRoleClaim
	default:
		return "", fmt.Errorf("claims: role claim has unexpected type %T", res)
	}
}

func (m *JMESPathMapper) resolve(raw string) (domainauth.Role, error) {
	if role, ok := m.aliases[raw]; ok {
		return role, nil
	}
	return domainauth.ParseRole(raw)
}

var _ ports.RoleMapper = (*JMESPathMapper)(nil)
