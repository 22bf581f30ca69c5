package ports

// Package ports defines interfaces (hexagonal ports) for session behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"encoding/json"

	domainauth "github.com/aulaplus/aula-ui/internal/domain/auth"
)

// VerifiedUser is the minimal payload returned by the verify-token query.
// Role is kept raw; the service validates it against the closed enumeration.
type VerifiedUser struct {
	ID   string
	Role string
}

// LoginResult carries the token and identity returned by a login mutation.
type LoginResult struct {
	Token    string
	Identity domainauth.Identity
}

// IdentityPatch is a partial identity update merged into a session.
// Nil fields are left unchanged.
type IdentityPatch struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// SchoolAPI is the remote GraphQL API the console delegates to. Every
// operation except the login mutations attaches the bearer token.
type SchoolAPI interface {
	// VerifyToken validates a bearer token and returns the reported user.
	VerifyToken(ctx context.Context, token string) (VerifiedUser, error)

	// LoginEstudiante exchanges student credentials for a token.
	LoginEstudiante(ctx context.Context, numeroIdentificacion, password string) (LoginResult, error)
	// LoginMaestro exchanges teacher credentials for a token.
	LoginMaestro(ctx context.Context, numeroIdentificacion, password string) (LoginResult, error)
	// LoginAdmin exchanges admin credentials for a token.
	LoginAdmin(ctx context.Context, email, password string) (LoginResult, error)

	// Perfil fetches the role-specific profile for the token's owner.
	Perfil(ctx context.Context, token string, role domainauth.Role) (domainauth.Identity, error)
	// ActualizarPerfil updates contact fields server-side and returns the
	// resulting identity.
	ActualizarPerfil(ctx context.Context, token string, patch IdentityPatch) (domainauth.Identity, error)
}

// SchoolQueries are the read operations proxied to page consumers verbatim.
// Payloads are passed through as raw JSON; the console adds no semantics.
type SchoolQueries interface {
	Actividades(ctx context.Context, token string) (json.RawMessage, error)
	Tareas(ctx context.Context, token string) (json.RawMessage, error)
	Calificaciones(ctx context.Context, token string) (json.RawMessage, error)
}

// SessionStore persists and retrieves session records.
// Get returns a not_found AppError when absent or expired; Delete of a
// missing record is a no-op so logout stays idempotent.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}
