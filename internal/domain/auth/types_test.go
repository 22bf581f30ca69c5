package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleAdmin, true},
		{RoleMaestro, true},
		{RoleEstudiante, true},
		{Role(""), false},
		{Role("director"), false},
		{Role("Admin"), false}, // case-sensitive
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.role.Valid(), "role %q", tt.role)
	}
}

func TestHomeRoute(t *testing.T) {
	assert.Equal(t, "/admin", HomeRoute(RoleAdmin))
	assert.Equal(t, "/maestro", HomeRoute(RoleMaestro))
	assert.Equal(t, "/estudiante", HomeRoute(RoleEstudiante))
	assert.Equal(t, LoginRoute, HomeRoute(Role("director")))
	assert.Equal(t, LoginRoute, HomeRoute(Role("")))
}

func TestSessionAuthenticated(t *testing.T) {
	sess := Session{
		State:     StateAuthenticated,
		Identity:  &Identity{ID: "u1", Role: RoleAdmin},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	assert.True(t, sess.Authenticated())

	// Authenticated state without an identity is not trusted.
	sess.Identity = nil
	assert.False(t, sess.Authenticated())

	assert.False(t, Anonymous().Authenticated())
	assert.False(t, Session{State: StatePending}.Authenticated())
}
