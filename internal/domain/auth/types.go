package auth

// Package auth contains domain-level types for sessions and authorization.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application authorization role as reported by the
// school API. The enumeration is closed; comparison is case-sensitive.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleMaestro    Role = "maestro"
	RoleEstudiante Role = "estudiante"
)

// Valid reports whether the role belongs to the closed enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMaestro, RoleEstudiante:
		return true
	}
	return false
}

// LoginRoute is the login entry point unauthenticated users are sent to.
const LoginRoute = "/auth/login"

// HomeRoute returns the canonical home path for a role.
// Roles outside the enumeration map to the login entry point.
func HomeRoute(r Role) string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleMaestro:
		return "/maestro"
	case RoleEstudiante:
		return "/estudiante"
	default:
		return LoginRoute
	}
}

// LoadingState is the tri-state validation status of a session.
// Consumers must not make authorization decisions while the state is pending.
type LoadingState string

const (
	// StatePending means validation is in flight or not yet attempted.
	StatePending LoadingState = "pending"
	// StateAuthenticated means the token was validated and identity is set.
	StateAuthenticated LoadingState = "authenticated"
	// StateAnonymous means there is no valid session.
	StateAnonymous LoadingState = "anonymous"
)

// Identity is the authenticated principal as reported by the school API.
type Identity struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	LastLogin time.Time `json:"last_login,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Session is the server-side record kept for one browser session.
// ID is an opaque session identifier; Token is the upstream bearer credential.
// Invariant: Identity is non-nil whenever State is StateAuthenticated. A
// pending record may also carry the identity captured at login; it is not
// trusted until the token verifies.
type Session struct {
	ID        string       `json:"id"`
	Token     string       `json:"token,omitempty"`
	Identity  *Identity    `json:"identity,omitempty"`
	State     LoadingState `json:"state"`
	Epoch     uint64       `json:"epoch"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Authenticated reports whether the session resolved to a valid identity.
func (s Session) Authenticated() bool {
	return s.State == StateAuthenticated && s.Identity != nil
}

// Anonymous returns a resolved unauthenticated session.
func Anonymous() Session {
	return Session{State: StateAnonymous}
}
