package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aulaplus/aula-ui/internal/ports"
)

// APIHandlers serves the JSON endpoints consumed by the console pages.
// Listing endpoints pass the school API payloads through untouched.
type APIHandlers struct {
	Svc     SessionServiceInterface
	Queries ports.SchoolQueries
	Logger  *slog.Logger
}

// Perfil returns the identity on the current session.
// GET /api/perfil.
func (h *APIHandlers) Perfil(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSessionFromContext(r.Context())
	if !ok || !session.Authenticated() {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"user":  session.Identity,
		"epoch": session.Epoch,
	})
}

// perfilUpdateRequest is the JSON body for profile updates. Epoch must match
// the session epoch reported by GET /api/perfil; a mismatch means the session
// changed underneath the form and the update is rejected.
type perfilUpdateRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Epoch    uint64  `json:"epoch"`
}

// PerfilUpdate applies a profile patch upstream and refreshes the session.
// PUT /api/perfil.
func (h *APIHandlers) PerfilUpdate(w http.ResponseWriter, r *http.Request) {
	sessionID := GetSessionIDFromContext(r.Context())
	if sessionID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req perfilUpdateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.FullName == nil && req.Email == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "empty_patch",
			Err:     errors.New("no fields to update"),
		})
		return
	}

	patch := ports.IdentityPatch{FullName: req.FullName, Email: req.Email}
	session, err := h.Svc.UpdateIdentity(r.Context(), sessionID, patch, req.Epoch)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"user":  session.Identity,
		"epoch": session.Epoch,
	})
}

// Actividades proxies the activities listing.
// GET /api/actividades.
func (h *APIHandlers) Actividades(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, "actividades", h.Queries.Actividades)
}

// Tareas proxies the assignments listing.
// GET /api/tareas.
func (h *APIHandlers) Tareas(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, "tareas", h.Queries.Tareas)
}

// Calificaciones proxies the grades listing.
// GET /api/calificaciones.
func (h *APIHandlers) Calificaciones(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, "calificaciones", h.Queries.Calificaciones)
}

type queryFunc func(ctx context.Context, token string) (json.RawMessage, error)

func (h *APIHandlers) proxy(w http.ResponseWriter, r *http.Request, name string, fn queryFunc) {
	session, ok := GetSessionFromContext(r.Context())
	if !ok || !session.Authenticated() {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	payload, err := fn(r.Context(), session.Token)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WarnContext(r.Context(), "upstream query failed",
				slog.String("query", name), slog.Any("error", err))
		}
		WriteAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
