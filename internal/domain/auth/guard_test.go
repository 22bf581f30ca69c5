package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authenticatedSession(role Role) Session {
	return Session{
		ID:        "s1",
		Token:     "t1",
		Identity:  &Identity{ID: "u1", Role: role},
		State:     StateAuthenticated,
		Epoch:     1,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestGuardWaitsWhilePending(t *testing.T) {
	g := NewGuard(RoleAdmin)

	d, apply := g.Evaluate(Session{State: StatePending})
	assert.Equal(t, DecisionWait, d.Kind)
	assert.False(t, apply)

	// Zero-value state counts as pending too.
	d, apply = g.Evaluate(Session{})
	assert.Equal(t, DecisionWait, d.Kind)
	assert.False(t, apply)
}

func TestGuardAnonymousRedirectsToLoginOnce(t *testing.T) {
	g := NewGuard(RoleAdmin)

	d, apply := g.Evaluate(Anonymous())
	require.Equal(t, DecisionLogin, d.Kind)
	assert.True(t, apply)

	target, ok := d.Redirect()
	require.True(t, ok)
	assert.Equal(t, LoginRoute, target)

	// Re-evaluating the same resolved state must not redirect again.
	d, apply = g.Evaluate(Anonymous())
	assert.Equal(t, DecisionLogin, d.Kind)
	assert.False(t, apply)
}

func TestGuardAllowsMatchingRole(t *testing.T) {
	g := NewGuard(RoleMaestro, RoleEstudiante)

	d, apply := g.Evaluate(authenticatedSession(RoleMaestro))
	assert.Equal(t, DecisionAllow, d.Kind)
	assert.True(t, apply)

	_, ok := d.Redirect()
	assert.False(t, ok)
}

func TestGuardNoRequiredRolesChecksAuthenticationOnly(t *testing.T) {
	g := NewGuard()

	d, _ := g.Evaluate(authenticatedSession(RoleEstudiante))
	assert.Equal(t, DecisionAllow, d.Kind)

	d, _ = NewGuard().Evaluate(Anonymous())
	assert.Equal(t, DecisionLogin, d.Kind)
}

func TestGuardWrongRoleRedirectsToOwnHome(t *testing.T) {
	g := NewGuard(RoleAdmin)

	d, apply := g.Evaluate(authenticatedSession(RoleEstudiante))
	require.Equal(t, DecisionRoleHome, d.Kind)
	assert.True(t, apply)
	assert.Equal(t, RoleEstudiante, d.Role)

	target, ok := d.Redirect()
	require.True(t, ok)
	assert.Equal(t, "/estudiante", target)

	// Duplicate evaluation suppressed.
	_, apply = g.Evaluate(authenticatedSession(RoleEstudiante))
	assert.False(t, apply)
}

func TestGuardUnknownRoleFallsBackToLogin(t *testing.T) {
	g := NewGuard(RoleAdmin)

	sess := authenticatedSession(Role("director"))
	d, apply := g.Evaluate(sess)
	assert.Equal(t, DecisionLogin, d.Kind)
	assert.True(t, apply)
}

func TestGuardChangedOutcomeReapplies(t *testing.T) {
	g := NewGuard(RoleAdmin)

	// First pass: anonymous, redirect to login.
	d, apply := g.Evaluate(Anonymous())
	require.Equal(t, DecisionLogin, d.Kind)
	require.True(t, apply)

	// Session goes pending during a login; guard waits and keeps the memo.
	_, apply = g.Evaluate(Session{State: StatePending})
	require.False(t, apply)

	// Resolves authenticated with the right role: new outcome applies.
	d, apply = g.Evaluate(authenticatedSession(RoleAdmin))
	assert.Equal(t, DecisionAllow, d.Kind)
	assert.True(t, apply)

	// Logout later: back to login, applied once more.
	d, apply = g.Evaluate(Anonymous())
	assert.Equal(t, DecisionLogin, d.Kind)
	assert.True(t, apply)
}

func TestGuardSameOutcomeAfterPendingStaysSuppressed(t *testing.T) {
	g := NewGuard(RoleAdmin)

	_, apply := g.Evaluate(Anonymous())
	require.True(t, apply)

	_, apply = g.Evaluate(Session{State: StatePending})
	require.False(t, apply)

	// Resolves to the same anonymous outcome: still suppressed.
	d, apply := g.Evaluate(Anonymous())
	assert.Equal(t, DecisionLogin, d.Kind)
	assert.False(t, apply)
}
