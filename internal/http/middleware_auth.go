package httpx

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	domainauth "github.com/aulaplus/aula-ui/internal/domain/auth"
)

// SessionBootstrap returns a middleware that resolves the browser session for
// every request before any route decision runs. The resolved session and the
// raw cookie value are placed on the request context; downstream guards never
// see a pending state.
func SessionBootstrap(svc SessionServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string
			if cookie, err := r.Cookie(sessionCookieName); err == nil {
				sessionID = cookie.Value
			}

			session := svc.Bootstrap(r.Context(), sessionID)

			ctx := SetSessionInContext(r.Context(), session)
			ctx = SetSessionIDInContext(ctx, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles returns a middleware that guards a route subtree. An empty
// role list admits any authenticated session.
//
// For browser requests: anonymous sessions redirect to login with the current
// URL as redirect_uri, and authenticated sessions with the wrong role
// redirect once to their own role's home page. For API requests the same
// outcomes are 401 and 403 JSON responses.
func RequireRoles(roles ...domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := GetSessionFromContext(r.Context())
			if !ok {
				// Route registered outside the session middleware; fail closed.
				session = domainauth.Anonymous()
			}

			guard := domainauth.NewGuard(roles...)
			decision, _ := guard.Evaluate(session)

			switch decision.Kind {
			case domainauth.DecisionAllow:
				next.ServeHTTP(w, r)
			case domainauth.DecisionWait:
				// Bootstrap settles every session, so a wait here means the
				// middleware chain is miswired.
				http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			case domainauth.DecisionLogin:
				if IsBrowserRequest(r) {
					redirectToLogin(w, r)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
			case domainauth.DecisionRoleHome:
				if IsBrowserRequest(r) {
					http.Redirect(w, r, domainauth.HomeRoute(decision.Role), http.StatusSeeOther)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
			}
		})
	}
}

// redirectToLogin redirects browser requests to the login page with the current URL as redirect_uri.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirectPath := safeRedirectPath(r.URL.RequestURI())
	loginURL := domainauth.LoginRoute + "?redirect_uri=" + url.QueryEscape(redirectPath)
	http.Redirect(w, r, loginURL, http.StatusSeeOther)
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
