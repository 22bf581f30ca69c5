package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/aulaplus/aula-ui/internal/domain/auth"
	"github.com/aulaplus/aula-ui/internal/ports"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Sessions     SessionServiceInterface
	Queries      ports.SchoolQueries
	Renderer     *TemplateRenderer
	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router. Every route runs behind
// session bootstrap and browser detection; role guards wrap the protected
// subtrees.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Sessions,
		Renderer:     services.Renderer,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	pageHandlers := &PageHandlers{Renderer: services.Renderer, Logger: services.Logger}
	apiHandlers := &APIHandlers{
		Svc:     services.Sessions,
		Queries: services.Queries,
		Logger:  services.Logger,
	}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	registerAuthRoutes(mux, authHandlers)
	registerPageRoutes(mux, pageHandlers)
	registerAPIRoutes(mux, apiHandlers)

	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			pageHandlers.Home(w, r)
			return
		}
		pageHandlers.NotFound(w, r)
	}))

	handler := SessionBootstrap(services.Sessions)(mux)
	return BrowserDetection()(handler)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.Handle("GET /auth/login", http.HandlerFunc(h.LoginPage))
	mux.Handle("POST /auth/login", http.HandlerFunc(h.Login))
	mux.Handle("POST /auth/logout", http.HandlerFunc(h.Logout))
	mux.Handle("GET /auth/status", http.HandlerFunc(h.Status))
}

func registerPageRoutes(mux *http.ServeMux, h *PageHandlers) {
	mux.Handle("GET /admin", RequireRoles(domainauth.RoleAdmin)(http.HandlerFunc(h.AdminDashboard)))
	mux.Handle("GET /maestro", RequireRoles(domainauth.RoleMaestro)(http.HandlerFunc(h.MaestroDashboard)))
	mux.Handle("GET /estudiante", RequireRoles(domainauth.RoleEstudiante)(http.HandlerFunc(h.EstudianteDashboard)))
}

func registerAPIRoutes(mux *http.ServeMux, h *APIHandlers) {
	anyRole := RequireRoles()

	mux.Handle("GET /api/perfil", anyRole(http.HandlerFunc(h.Perfil)))
	mux.Handle("PUT /api/perfil", anyRole(http.HandlerFunc(h.PerfilUpdate)))

	mux.Handle("GET /api/actividades",
		RequireRoles(domainauth.RoleAdmin, domainauth.RoleMaestro, domainauth.RoleEstudiante)(http.HandlerFunc(h.Actividades)))
	mux.Handle("GET /api/tareas",
		RequireRoles(domainauth.RoleMaestro, domainauth.RoleEstudiante)(http.HandlerFunc(h.Tareas)))
	mux.Handle("GET /api/calificaciones",
		RequireRoles(domainauth.RoleMaestro, domainauth.RoleEstudiante)(http.HandlerFunc(h.Calificaciones)))
}
