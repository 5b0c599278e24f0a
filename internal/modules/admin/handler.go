package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/printq/printq-backend/internal/modules/auth"
	"github.com/printq/printq-backend/internal/modules/user"
)

// Handler exposes administration HTTP endpoints. All routes require an
// ADMIN token.
type Handler struct {
	service   Service
	jwtSecret string
}

func NewHandler(service Service, jwtSecret string) *Handler {
	return &Handler{service: service, jwtSecret: jwtSecret}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(auth.RequireRole(h.jwtSecret, string(user.RoleAdmin)))
		r.Get("/users", h.listUsers)                  // GET    /api/v1/admin/users
		r.Patch("/users/{id}/status", h.setUserState) // PATCH  /api/v1/admin/users/{id}/status
		r.Delete("/users/{id}", h.deleteUser)         // DELETE /api/v1/admin/users/{id}
	})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		respond(w, errStatus(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, users)
}

func (h *Handler) setUserState(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		return
	}
	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsActive == nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "is_active is required"})
		return
	}
	if err := h.service.SetUserActive(r.Context(), id, *req.IsActive); err != nil {
		respond(w, errStatus(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]bool{"is_active": *req.IsActive})
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		return
	}
	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		respond(w, errStatus(err), map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func errStatus(err error) int {
	switch {
	case errors.Is(err, ErrActiveJobs):
		return http.StatusConflict
	case errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
