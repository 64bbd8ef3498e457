package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/auth"
	"github.com/sakif/jobboard/internal/model"
	"github.com/sakif/jobboard/internal/service"
)

// ApplicationHandler serves application submission and review.
type ApplicationHandler struct {
	service *service.ApplicationService
}

func NewApplicationHandler(service *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

type applyRequest struct {
	JobID       string `json:"jobId"`
	Resume      string `json:"resume"`
	CoverLetter string `json:"coverLetter"`
}

type statusUpdateRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type applicationListResponse struct {
	Applications []model.Application `json:"applications"`
	Pagination   Pagination          `json:"pagination"`
}

// Apply handles POST /api/applications. The applicant is always the
// authenticated user — the body cannot apply on someone else's behalf.
func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	app, err := h.service.Apply(r.Context(), user.ID, req.JobID, req.Resume, req.CoverLetter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"application": app})
}

// ListMine handles GET /api/applications/my-applications.
func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	apps, err := h.service.ListMine(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if apps == nil {
		apps = []model.Application{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"applications": apps})
}

// ListAll handles GET /api/applications — admin review queue with
// optional status and job filters.
func (h *ApplicationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.service.ListAll(r.Context(),
		q.Get("status"),
		q.Get("jobId"),
		queryInt(r, "page", 1),
		queryInt(r, "limit", service.DefaultPageSize),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	apps := page.Applications
	if apps == nil {
		apps = []model.Application{}
	}
	writeJSON(w, http.StatusOK, applicationListResponse{
		Applications: apps,
		Pagination: Pagination{
			Current: page.Current,
			Pages:   page.Pages,
			Total:   page.Total,
		},
	})
}

// ListForJob handles GET /api/applications/job/{jobId} — every candidate
// for one posting, full profiles, admin only.
func (h *ApplicationHandler) ListForJob(w http.ResponseWriter, r *http.Request) {
	apps, err := h.service.ListForJob(r.Context(), chi.URLParam(r, "jobId"))
	if err != nil {
		writeError(w, err)
		return
	}
	if apps == nil {
		apps = []model.Application{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"applications": apps})
}

// UpdateStatus handles PUT /api/applications/{id}/status — admin only.
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	app, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"application": app})
}
