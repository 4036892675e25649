package auth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Role
		wantErr bool
	}{
		{name: "admin", raw: "admin", want: RoleAdmin},
		{name: "academic admin", raw: "academic_admin", want: RoleAcademicAdmin},
		{name: "teacher", raw: "teacher", want: RoleTeacher},
		{name: "student", raw: "student", want: RoleStudent},
		{name: "empty", raw: "", wantErr: true},
		{name: "unknown", raw: "superuser", wantErr: true},
		{name: "case sensitive", raw: "Admin", wantErr: true},
		{name: "whitespace", raw: " admin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid role")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewUserMirrorsProfile(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleAcademicAdmin, RoleTeacher, RoleStudent} {
		u := NewUser("u-1", "Maria", "maria@m007.com", role)
		assert.Equal(t, role, u.Role)
		assert.Equal(t, role, u.Profile, "profile must mirror role")
	}
}

func TestSnapshotCarriesNoToken(t *testing.T) {
	u := NewUser("u-1", "Maria", "maria@m007.com", RoleTeacher)
	snap := Snapshot{User: &u, IsAuthenticated: true}

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "token")
	assert.Contains(t, string(data), `"is_authenticated":true`)
}
