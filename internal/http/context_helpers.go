package httpx

import (
	"context"

	domainauth "github.com/aulaplus/aula-ui/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type sessionKey struct{}

// sessionIDKey carries the raw session cookie value, separate from the
// resolved session, so logout can delete a record even when it no longer
// resolves.
type sessionIDKey struct{}

// SetSessionInContext returns a child context that carries the resolved session.
func SetSessionInContext(ctx context.Context, session domainauth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the resolved session from context and a
// boolean indicating presence. Middleware guarantees the session is settled;
// a missing value means the request bypassed the session middleware.
func GetSessionFromContext(ctx context.Context) (domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(domainauth.Session); ok {
		return session, true
	}
	return domainauth.Session{}, false
}

// SetSessionIDInContext stores the raw cookie value on the context.
func SetSessionIDInContext(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// GetSessionIDFromContext returns the raw session cookie value, if any.
func GetSessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey{}).(string); ok {
		return id
	}
	return ""
}

// IsAnonymous reports whether the current request context lacks an
// authenticated session.
func IsAnonymous(ctx context.Context) bool {
	s, ok := GetSessionFromContext(ctx)
	return !ok || !s.Authenticated()
}
