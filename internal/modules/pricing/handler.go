package pricing

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes pricing configuration HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/pricing-configs", func(r chi.Router) {
		r.Post("/", h.createConfig)                   // POST   /api/v1/pricing-configs
		r.Get("/{id}", h.getConfig)                   // GET    /api/v1/pricing-configs/{id}
		r.Put("/{id}", h.updateConfig)                // PUT    /api/v1/pricing-configs/{id}
		r.Delete("/{id}", h.deleteConfig)             // DELETE /api/v1/pricing-configs/{id}
		r.Get("/shop/{shop_owner_id}", h.listConfigs) // GET    /api/v1/pricing-configs/shop/{shop_owner_id}
	})
}

func (h *Handler) createConfig(w http.ResponseWriter, r *http.Request) {
	var req CreateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.CreateConfig(r.Context(), req)
	if err != nil {
		respond(w, errStatus(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, c)
}

func (h *Handler) getConfig(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetConfig(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, errStatus(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) updateConfig(w http.ResponseWriter, r *http.Request) {
	var req UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.UpdateConfig(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respond(w, errStatus(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) deleteConfig(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteConfig(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond(w, errStatus(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "pricing configuration deleted"})
}

func (h *Handler) listConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := h.service.ListShopConfigs(r.Context(), chi.URLParam(r, "shop_owner_id"))
	if err != nil {
		respond(w, errStatus(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, configs)
}

func errStatus(err error) int {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicateConfig):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConfigNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
