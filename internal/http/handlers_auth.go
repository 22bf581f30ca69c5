package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/aulaplus/aula-ui/internal/domain/auth"
	apperrors "github.com/aulaplus/aula-ui/internal/errors"
	"github.com/aulaplus/aula-ui/internal/ports"
	"github.com/aulaplus/aula-ui/internal/service"
)

// SessionServiceInterface defines the interface for session service operations.
type SessionServiceInterface interface {
	Bootstrap(ctx context.Context, sessionID string) domainauth.Session
	Login(ctx context.Context, creds service.Credentials) (domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
	UpdateIdentity(ctx context.Context, sessionID string, patch ports.IdentityPatch, expectedEpoch uint64) (domainauth.Session, error)
}

// AuthHandlers provides HTTP handlers for the session lifecycle.
type AuthHandlers struct {
	Svc          SessionServiceInterface
	Renderer     *TemplateRenderer
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// LoginPage renders the login form.
// GET /auth/login?redirect_uri=<optional_redirect>&actor=<optional_actor>.
// An already-authenticated session skips the form and goes home.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if session, ok := GetSessionFromContext(r.Context()); ok && session.Authenticated() {
		http.Redirect(w, r, domainauth.HomeRoute(session.Identity.Role), http.StatusSeeOther)
		return
	}

	actor := r.URL.Query().Get(fieldActor)
	if !domainauth.Role(actor).Valid() {
		actor = string(domainauth.RoleEstudiante)
	}

	data := LoginPageData{
		Title:       "Iniciar sesión",
		Actor:       actor,
		RedirectURI: safeRedirectPath(r.URL.Query().Get(fieldRedirectURI)),
		Error:       r.URL.Query().Get("error"),
	}
	if err := h.Renderer.RenderPage(w, "login", data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// loginRequest is the JSON body accepted by the login endpoint.
type loginRequest struct {
	Actor                string `json:"actor"`
	NumeroIdentificacion string `json:"numero_identificacion,omitempty"`
	Email                string `json:"email,omitempty"`
	Password             string `json:"password"`
	RedirectURI          string `json:"redirect_uri,omitempty"`
}

// Login authenticates against the school API and establishes a session.
// POST /auth/login. Accepts a form post from the login page or a JSON body.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if !DecodeJSON(w, r, &req) {
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
			return
		}
		req = loginRequest{
			Actor:                r.PostFormValue(fieldActor),
			NumeroIdentificacion: r.PostFormValue(fieldNumeroIdentificacion),
			Email:                r.PostFormValue(fieldEmail),
			Password:             r.PostFormValue(fieldPassword),
			RedirectURI:          r.PostFormValue(fieldRedirectURI),
		}
	}

	session, err := h.Svc.Login(r.Context(), service.Credentials{
		Kind:                 domainauth.Role(req.Actor),
		NumeroIdentificacion: req.NumeroIdentificacion,
		Email:                req.Email,
		Password:             req.Password,
	})
	if err != nil {
		h.loginFailed(w, r, req, err)
		return
	}

	// Replacing the cookie supersedes whatever session the browser had; its
	// record self-expires.
	h.setSessionCookie(w, r, session)

	if IsBrowserRequest(r) {
		redirectURI := safeRedirectPath(req.RedirectURI)
		if redirectURI == "/" {
			redirectURI = domainauth.HomeRoute(session.Identity.Role)
		}
		http.Redirect(w, r, redirectURI, http.StatusSeeOther)
		return
	}
	WriteJSON(w, http.StatusOK, sessionStatusPayload(session))
}

// loginFailed reports a failed login: browsers return to the form with a
// message, API clients get the mapped error.
func (h *AuthHandlers) loginFailed(w http.ResponseWriter, r *http.Request, req loginRequest, err error) {
	h.logger().WarnContext(r.Context(), "login failed",
		"actor", req.Actor,
		"error_code", apperrors.GetCode(err))

	if !IsBrowserRequest(r) {
		WriteAppError(w, err)
		return
	}

	message := "No se pudo iniciar sesión. Inténtalo de nuevo."
	if apperrors.IsInvalidCredentials(err) || apperrors.IsValidation(err) {
		message = "Credenciales incorrectas."
	}

	data := LoginPageData{
		Title:       "Iniciar sesión",
		Actor:       req.Actor,
		RedirectURI: safeRedirectPath(req.RedirectURI),
		Error:       message,
	}
	w.WriteHeader(http.StatusUnauthorized)
	if renderErr := h.Renderer.RenderPage(w, "login", data); renderErr != nil {
		h.logger().ErrorContext(r.Context(), "render login page failed", "error", renderErr)
	}
}

// Logout invalidates the session and clears the cookie.
// POST /auth/logout. Repeating a logout is harmless.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID := GetSessionIDFromContext(r.Context()); sessionID != "" {
		if err := h.Svc.Logout(r.Context(), sessionID); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}
	h.clearCookie(w, r, sessionCookieName)

	if IsBrowserRequest(r) {
		http.Redirect(w, r, domainauth.LoginRoute, http.StatusSeeOther)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	if IsAnonymous(r.Context()) {
		// A cookie that no longer resolves is garbage; clear it.
		if GetSessionIDFromContext(r.Context()) != "" {
			h.clearCookie(w, r, sessionCookieName)
		}
		WriteJSON(w, http.StatusOK, sessionStatusPayload(domainauth.Anonymous()))
		return
	}
	session, _ := GetSessionFromContext(r.Context())
	WriteJSON(w, http.StatusOK, sessionStatusPayload(session))
}

// sessionStatusPayload shapes a session for JSON consumers.
func sessionStatusPayload(s domainauth.Session) map[string]any {
	payload := map[string]any{
		"state":         string(s.State),
		"authenticated": s.Authenticated(),
	}
	if s.Authenticated() {
		payload["user"] = map[string]any{
			"id":        s.Identity.ID,
			"role":      s.Identity.Role,
			"full_name": s.Identity.FullName,
			"email":     s.Identity.Email,
		}
		payload["epoch"] = s.Epoch
		payload["expires_at"] = s.ExpiresAt
	}
	return payload
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors key attributes (Secure, Path, Domain, SameSite) used when setting cookies
// to maximize compatibility across browsers during deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}
