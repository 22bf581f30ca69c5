package service

// Package service orchestrates domain operations across the ports. The
// session service owns the session lifecycle: bootstrap on every request,
// login, logout, and identity updates.

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainauth "github.com/aulaplus/aula-ui/internal/domain/auth"
	apperrors "github.com/aulaplus/aula-ui/internal/errors"
	"github.com/aulaplus/aula-ui/internal/ports"
)

// DefaultSessionTTL applies when neither config nor the token carry a lifetime.
const DefaultSessionTTL = 8 * time.Hour

// minSessionLifetime bounds the session lifetime from below when the token's
// exp claim is already in the past.
const minSessionLifetime = time.Minute

// Credentials is one login attempt. Kind selects the login mutation:
// students and teachers authenticate with an identification number, admins
// with an email address.
type Credentials struct {
	Kind                 domainauth.Role
	NumeroIdentificacion string
	Email                string
	Password             string
}

// SessionOptions configures a SessionService.
type SessionOptions struct {
	API      ports.SchoolAPI
	Sessions ports.SessionStore
	TTL      time.Duration
	Logger   *slog.Logger

	// now overrides the clock in tests.
	now func() time.Time
}

// SessionService manages browser sessions against the school API.
type SessionService struct {
	api      ports.SchoolAPI
	sessions ports.SessionStore
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewSessionService creates a session service.
func NewSessionService(opts SessionOptions) *SessionService {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.now
	if now == nil {
		now = time.Now
	}
	return &SessionService{
		api:      opts.API,
		sessions: opts.Sessions,
		ttl:      ttl,
		logger:   logger,
		now:      now,
	}
}

// Bootstrap resolves the session for one request. It never returns an error:
// any failure resolves to an anonymous session so route decisions are always
// made against a settled state, never a pending one.
//
// A stored record whose token no longer verifies is deleted; a record whose
// identity predates a profile change is refreshed best-effort.
func (s *SessionService) Bootstrap(ctx context.Context, sessionID string) domainauth.Session {
	if sessionID == "" {
		return domainauth.Anonymous()
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			s.logger.Error("session lookup failed", "error", err, "session_id", sessionID)
		}
		return domainauth.Anonymous()
	}

	switch sess.State {
	case domainauth.StateAuthenticated:
		if sess.Identity == nil {
			// Corrupt record; treat as absent.
			s.discard(ctx, sessionID)
			return domainauth.Anonymous()
		}
		return sess
	case domainauth.StatePending, "":
		return s.resolve(ctx, sess)
	default:
		// An anonymous record has no reason to persist.
		s.discard(ctx, sessionID)
		return domainauth.Anonymous()
	}
}

// resolve settles a pending record by verifying its token upstream.
func (s *SessionService) resolve(ctx context.Context, sess domainauth.Session) domainauth.Session {
	if sess.Token == "" {
		s.discard(ctx, sess.ID)
		return domainauth.Anonymous()
	}

	verified, err := s.api.VerifyToken(ctx, sess.Token)
	if err != nil {
		// A rejected token and a malformed verify payload both resolve to
		// anonymous; only the record of a rejected token is removed, so a
		// transient upstream outage does not log everyone out.
		if apperrors.IsUnauthenticated(err) {
			s.discard(ctx, sess.ID)
		} else {
			s.logger.Warn("token verification unavailable", "error", err, "session_id", sess.ID)
		}
		return domainauth.Anonymous()
	}

	role := domainauth.Role(verified.Role)
	identity := domainauth.Identity{ID: verified.ID, Role: role}
	if sess.Identity != nil && sess.Identity.ID == verified.ID {
		// A record written at login already carries the full identity; keep it
		// in case profile enrichment is unavailable.
		identity = *sess.Identity
		identity.Role = role
	}
	if full, perfilErr := s.api.Perfil(ctx, sess.Token, role); perfilErr == nil {
		identity = full
	} else {
		s.logger.Warn("profile enrichment failed", "error", perfilErr, "session_id", sess.ID)
	}

	sess.State = domainauth.StateAuthenticated
	sess.Identity = &identity
	if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
		s.logger.Error("session save failed", "error", saveErr, "session_id", sess.ID)
	}
	return sess
}

// Login authenticates against the school API and creates a fresh session.
// The previous session for this browser, if any, is replaced by the caller
// swapping the cookie; epochs restart at 1.
func (s *SessionService) Login(ctx context.Context, creds Credentials) (domainauth.Session, error) {
	if creds.Password == "" {
		return domainauth.Session{}, apperrors.ValidationField("password", "password is required")
	}

	var (
		result ports.LoginResult
		err    error
	)
	switch creds.Kind {
	case domainauth.RoleEstudiante:
		if strings.TrimSpace(creds.NumeroIdentificacion) == "" {
			return domainauth.Session{}, apperrors.ValidationField("numero_identificacion", "identification number is required")
		}
		result, err = s.api.LoginEstudiante(ctx, creds.NumeroIdentificacion, creds.Password)
	case domainauth.RoleMaestro:
		if strings.TrimSpace(creds.NumeroIdentificacion) == "" {
			return domainauth.Session{}, apperrors.ValidationField("numero_identificacion", "identification number is required")
		}
		result, err = s.api.LoginMaestro(ctx, creds.NumeroIdentificacion, creds.Password)
	case domainauth.RoleAdmin:
		if strings.TrimSpace(creds.Email) == "" {
			return domainauth.Session{}, apperrors.ValidationField("email", "email is required")
		}
		result, err = s.api.LoginAdmin(ctx, creds.Email, creds.Password)
	default:
		return domainauth.Session{}, apperrors.ValidationField("actor", "unknown login actor")
	}
	if err != nil {
		return domainauth.Session{}, err
	}

	identity := result.Identity
	sess := domainauth.Session{
		ID:        uuid.New().String(),
		Token:     result.Token,
		Identity:  &identity,
		State:     domainauth.StateAuthenticated,
		Epoch:     1,
		ExpiresAt: s.expiresAt(result.Token),
	}

	// The record is persisted pending so the next bootstrap proves the token
	// against the school API before trusting it; a token revoked right after
	// login never authenticates from the cached record.
	record := sess
	record.State = domainauth.StatePending
	if saveErr := s.sessions.Save(ctx, record); saveErr != nil {
		return domainauth.Session{}, apperrors.Wrap(saveErr, apperrors.ErrCodeInternal, "persist session")
	}

	s.logger.Info("login succeeded",
		"session_id", sess.ID,
		"user_id", identity.ID,
		"role", identity.Role)
	return sess, nil
}

// Logout removes the session record. Repeating a logout is a no-op; the
// remote token is not revoked here because the school API owns its lifetime.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil && !apperrors.IsNotFound(err) {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "delete session")
	}
	s.logger.Info("logout", "session_id", sessionID)
	return nil
}

// UpdateIdentity applies a profile patch upstream and merges the result into
// the session. expectedEpoch guards against the race where a logout (or a
// replacement login) lands between read and write: a mismatch, or a session
// that disappeared, yields a stale error and writes nothing.
func (s *SessionService) UpdateIdentity(ctx context.Context, sessionID string, patch ports.IdentityPatch, expectedEpoch uint64) (domainauth.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return domainauth.Session{}, apperrors.Stale("session no longer exists")
		}
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "load session")
	}
	if sess.Epoch != expectedEpoch {
		return domainauth.Session{}, apperrors.Stale("session changed since the update began")
	}
	if !sess.Authenticated() {
		return domainauth.Session{}, apperrors.Unauthenticated("session is not authenticated")
	}

	updated, err := s.api.ActualizarPerfil(ctx, sess.Token, patch)
	if err != nil {
		return domainauth.Session{}, err
	}

	// The update mutation reports a role for admins only; students and
	// teachers keep the role already on the session.
	merged := *sess.Identity
	merged.FullName = updated.FullName
	merged.Email = updated.Email
	merged.UpdatedAt = updated.UpdatedAt
	if updated.Role.Valid() {
		merged.Role = updated.Role
	}

	sess.Identity = &merged
	sess.Epoch++
	if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
		return domainauth.Session{}, apperrors.Wrap(saveErr, apperrors.ErrCodeInternal, "persist session")
	}
	return sess, nil
}

func (s *SessionService) discard(ctx context.Context, sessionID string) {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("session cleanup failed", "error", err, "session_id", sessionID)
	}
}

// expiresAt derives the session lifetime from the token's exp claim when one
// is present, clamped between a minimal lifetime and the configured TTL. The
// signature is not checked; the school API remains the authority on token
// validity.
func (s *SessionService) expiresAt(token string) time.Time {
	now := s.now()
	max := now.Add(s.ttl)

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return max
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return max
	}
	if exp.Time.After(max) {
		return max
	}
	// An exp already in the past gets the shortest lifetime, not the longest:
	// the first bootstrap will reject the token anyway.
	if min := now.Add(minSessionLifetime); exp.Time.Before(min) {
		return min
	}
	return exp.Time
}
