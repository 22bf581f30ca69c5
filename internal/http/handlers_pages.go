package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/aulaplus/aula-ui/internal/domain/auth"
)

// PageHandlers serves the server-rendered console pages.
type PageHandlers struct {
	Renderer *TemplateRenderer
	Logger   *slog.Logger
}

// Home routes each visitor to their place: authenticated sessions go to the
// role's home page, everyone else to login.
// GET /.
func (h *PageHandlers) Home(w http.ResponseWriter, r *http.Request) {
	if IsAnonymous(r.Context()) {
		http.Redirect(w, r, domainauth.LoginRoute, http.StatusSeeOther)
		return
	}
	session, _ := GetSessionFromContext(r.Context())
	http.Redirect(w, r, domainauth.HomeRoute(session.Identity.Role), http.StatusSeeOther)
}

// AdminDashboard renders the admin landing page.
// GET /admin.
func (h *PageHandlers) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, "admin", "Administración")
}

// MaestroDashboard renders the teacher landing page.
// GET /maestro.
func (h *PageHandlers) MaestroDashboard(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, "maestro", "Portal del maestro")
}

// EstudianteDashboard renders the student landing page.
// GET /estudiante.
func (h *PageHandlers) EstudianteDashboard(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, "estudiante", "Portal del estudiante")
}

func (h *PageHandlers) renderDashboard(w http.ResponseWriter, r *http.Request, page, title string) {
	session, _ := GetSessionFromContext(r.Context())
	if !session.Authenticated() {
		// The role guard runs first; reaching here anonymously is a wiring bug.
		http.Redirect(w, r, domainauth.LoginRoute, http.StatusSeeOther)
		return
	}

	data := DashboardData{Title: title, Identity: *session.Identity}
	if err := h.Renderer.RenderPage(w, page, data); err != nil {
		if h.Logger != nil {
			h.Logger.ErrorContext(r.Context(), "render dashboard failed",
				slog.String("page", page), slog.Any("error", err))
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// NotFound renders the 404 page for browser requests and JSON for the rest.
func (h *PageHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if IsBrowserRequest(r) {
		h.Renderer.RenderError(w, http.StatusNotFound, ErrorPageData{
			Title:   "No encontrado",
			Status:  http.StatusNotFound,
			Message: "La página que buscas no existe.",
		})
		return
	}
	WriteJSON(w, http.StatusNotFound, map[string]string{
		"error":   "not_found",
		"message": "resource not found",
	})
}
