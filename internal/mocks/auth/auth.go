package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"encoding/json"
	"time"

	domainauth "github.com/aulaplus/aula-ui/internal/domain/auth"
	apperrors "github.com/aulaplus/aula-ui/internal/errors"
	"github.com/aulaplus/aula-ui/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SchoolAPI     = (*MockSchoolAPI)(nil)
	_ ports.SchoolQueries = (*MockSchoolAPI)(nil)
	_ ports.SessionStore  = (*MemorySessionStore)(nil)
)

// MockSchoolAPI simulates the school GraphQL API for tests with deterministic
// defaults. Any Func field overrides the default behavior for that operation.
type MockSchoolAPI struct {
	VerifyTokenFunc      func(ctx context.Context, token string) (ports.VerifiedUser, error)
	LoginEstudianteFunc  func(ctx context.Context, numeroIdentificacion, password string) (ports.LoginResult, error)
	LoginMaestroFunc     func(ctx context.Context, numeroIdentificacion, password string) (ports.LoginResult, error)
	LoginAdminFunc       func(ctx context.Context, email, password string) (ports.LoginResult, error)
	PerfilFunc           func(ctx context.Context, token string, role domainauth.Role) (domainauth.Identity, error)
	ActualizarPerfilFunc func(ctx context.Context, token string, patch ports.IdentityPatch) (domainauth.Identity, error)

	// Deterministic values for predictable testing
	Token       string
	DefaultUser domainauth.Identity

	// Call tracking for assertions
	VerifyCalls int
	LoginCalls  int
}

// NewMockSchoolAPI creates a MockSchoolAPI with sensible defaults.
func NewMockSchoolAPI() *MockSchoolAPI {
	return &MockSchoolAPI{
		Token: "mock-token-1",
		DefaultUser: domainauth.Identity{
			ID:        "mock-user-1",
			Role:      domainauth.RoleEstudiante,
			FullName:  "Mock Student",
			Email:     "mock.student@example.com",
			Active:    true,
			CreatedAt: time.Now().Add(-24 * time.Hour),
		},
	}
}

func (m *MockSchoolAPI) VerifyToken(ctx context.Context, token string) (ports.VerifiedUser, error) {
	m.VerifyCalls++
	if m.VerifyTokenFunc != nil {
		return m.VerifyTokenFunc(ctx, token)
	}
	if token != m.Token {
		return ports.VerifiedUser{}, apperrors.Unauthenticated("token rejected by school API")
	}
	return ports.VerifiedUser{ID: m.DefaultUser.ID, Role: string(m.DefaultUser.Role)}, nil
}

func (m *MockSchoolAPI) LoginEstudiante(ctx context.Context, numeroIdentificacion, password string) (ports.LoginResult, error) {
	m.LoginCalls++
	if m.LoginEstudianteFunc != nil {
		return m.LoginEstudianteFunc(ctx, numeroIdentificacion, password)
	}
	return m.defaultLogin(domainauth.RoleEstudiante, password)
}

func (m *MockSchoolAPI) LoginMaestro(ctx context.Context, numeroIdentificacion, password string) (ports.LoginResult, error) {
	m.LoginCalls++
	if m.LoginMaestroFunc != nil {
		return m.LoginMaestroFunc(ctx, numeroIdentificacion, password)
	}
	return m.defaultLogin(domainauth.RoleMaestro, password)
}

func (m *MockSchoolAPI) LoginAdmin(ctx context.Context, email, password string) (ports.LoginResult, error) {
	m.LoginCalls++
	if m.LoginAdminFunc != nil {
		return m.LoginAdminFunc(ctx, email, password)
	}
	return m.defaultLogin(domainauth.RoleAdmin, password)
}

func (m *MockSchoolAPI) defaultLogin(role domainauth.Role, password string) (ports.LoginResult, error) {
	if password == "wrong" {
		return ports.LoginResult{}, apperrors.InvalidCredentials("invalid credentials")
	}
	identity := m.DefaultUser
	identity.Role = role
	return ports.LoginResult{Token: m.Token, Identity: identity}, nil
}

func (m *MockSchoolAPI) Perfil(ctx context.Context, token string, role domainauth.Role) (domainauth.Identity, error) {
	if m.PerfilFunc != nil {
		return m.PerfilFunc(ctx, token, role)
	}
	identity := m.DefaultUser
	identity.Role = role
	return identity, nil
}

func (m *MockSchoolAPI) ActualizarPerfil(ctx context.Context, token string, patch ports.IdentityPatch) (domainauth.Identity, error) {
	if m.ActualizarPerfilFunc != nil {
		return m.ActualizarPerfilFunc(ctx, token, patch)
	}
	identity := m.DefaultUser
	if patch.FullName != nil {
		identity.FullName = *patch.FullName
	}
	if patch.Email != nil {
		identity.Email = *patch.Email
	}
	identity.UpdatedAt = time.Now()
	return identity, nil
}

func (m *MockSchoolAPI) Actividades(_ context.Context, _ string) (json.RawMessage, error) {
	return json.RawMessage(`[]`), nil
}

func (m *MockSchoolAPI) Tareas(_ context.Context, _ string) (json.RawMessage, error) {
	return json.RawMessage(`[]`), nil
}

func (m *MockSchoolAPI) Calificaciones(_ context.Context, _ string) (json.RawMessage, error) {
	return json.RawMessage(`[]`), nil
}

// MemorySessionStore is an in-memory session store for unit tests. Unlike the
// production adapters it keeps expired records so tests can inspect them.
type MemorySessionStore struct {
	sessions map[string]domainauth.Session

	// FailSave forces Save to error, for exercising persistence failures.
	FailSave error
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if m.FailSave != nil {
		return m.FailSave
	}
	if sess.ID == "" {
		return apperrors.Validation("session ID cannot be empty")
	}
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, apperrors.NotFound("session not found")
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

// Len reports the number of stored records.
func (m *MemorySessionStore) Len() int { return len(m.sessions) }
