package printjob

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/printq/printq-backend/internal/modules/pricing"
)

// maxUploadSize caps each attachment at 10MB.
const maxUploadSize = 10 << 20

// Handler exposes print job HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/print-jobs", func(r chi.Router) {
		r.Post("/", h.submit)                    // POST  /api/v1/print-jobs (multipart)
		r.Patch("/{id}/status", h.updateStatus)  // PATCH /api/v1/print-jobs/{id}/status
		r.Get("/shop/{shop_id}", h.listShopJobs) // GET   /api/v1/print-jobs/shop/{shop_id}?status=PENDING
		r.Get("/token/{token}", h.getByToken)    // GET   /api/v1/print-jobs/token/{token}
	})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	req := SubmitRequest{
		ShopOwnerID:   r.FormValue("shop_owner_id"),
		CustomerName:  r.FormValue("customer_name"),
		CustomerPhone: r.FormValue("customer_phone"),
		CustomerEmail: r.FormValue("customer_email"),
		Copies:        r.FormValue("noof_copies"),
		PrintType:     r.FormValue("print_type"),
		PaperType:     r.FormValue("paper_type"),
		PrintSide:     r.FormValue("print_side"),
		SpecificPages: r.FormValue("specific_pages"),
	}

	for _, fh := range r.MultipartForm.File["files"] {
		if fh.Size > maxUploadSize {
			respond(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("file %s exceeds the 10MB limit", fh.Filename),
			})
			return
		}
		f, err := fh.Open()
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": "unreadable file " + fh.Filename})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": "unreadable file " + fh.Filename})
			return
		}
		req.Files = append(req.Files, FileUpload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	job, err := h.service.Submit(r.Context(), req)
	if err != nil {
		respond(w, errStatus(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, job)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	job, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respond(w, errStatus(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, job)
}

func (h *Handler) listShopJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.ListShopJobs(r.Context(), chi.URLParam(r, "shop_id"), r.URL.Query().Get("status"))
	if err != nil {
		respond(w, errStatus(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"count": len(jobs), "data": jobs})
}

func (h *Handler) getByToken(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.GetJobByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respond(w, errStatus(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, job)
}

func errStatus(err error) int {
	var ve *ValidationError
	var ufe *UnsupportedFileTypeError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ufe):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pricing.ErrConfigNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
