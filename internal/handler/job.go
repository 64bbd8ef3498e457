package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/auth"
	"github.com/sakif/jobboard/internal/model"
	"github.com/sakif/jobboard/internal/service"
)

// JobHandler serves the job listing and the admin CRUD endpoints.
type JobHandler struct {
	service *service.JobService
}

func NewJobHandler(service *service.JobService) *JobHandler {
	return &JobHandler{service: service}
}

// jobRequest carries a create or update payload. Salary and
// applicationDeadline are pointers so an update can tell "not sent"
// apart from "sent as zero".
type jobRequest struct {
	Title               string        `json:"title"`
	Company             string        `json:"company"`
	Description         string        `json:"description"`
	Requirements        []string      `json:"requirements"`
	Location            string        `json:"location"`
	Type                string        `json:"type"`
	Salary              *model.Salary `json:"salary"`
	Skills              []string      `json:"skills"`
	Experience          string        `json:"experience"`
	Status              string        `json:"status"`
	ApplicationDeadline *time.Time    `json:"applicationDeadline"`
}

func (r jobRequest) toInput() service.JobInput {
	return service.JobInput{
		Title:               r.Title,
		Company:             r.Company,
		Description:         r.Description,
		Requirements:        r.Requirements,
		Location:            r.Location,
		Type:                r.Type,
		Salary:              r.Salary,
		Skills:              r.Skills,
		Experience:          r.Experience,
		Status:              r.Status,
		ApplicationDeadline: r.ApplicationDeadline,
	}
}

type jobListResponse struct {
	Jobs       []model.Job `json:"jobs"`
	Pagination Pagination  `json:"pagination"`
}

// listQuery parses the shared listing query string.
func listQuery(r *http.Request) service.ListQuery {
	q := r.URL.Query()
	return service.ListQuery{
		Location:   q.Get("location"),
		Type:       q.Get("type"),
		Experience: q.Get("experience"),
		Search:     q.Get("search"),
		Status:     q.Get("status"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", service.DefaultPageSize),
	}
}

// List handles GET /api/jobs — public, active postings only.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListPublic(r.Context(), listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJobPage(w, page)
}

// ListAdmin handles GET /api/jobs/admin — all statuses, admin only.
func (h *JobHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListAdmin(r.Context(), listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJobPage(w, page)
}

func writeJobPage(w http.ResponseWriter, page *service.JobPage) {
	jobs := page.Jobs
	if jobs == nil {
		jobs = []model.Job{} // serialise as [], never null
	}
	writeJSON(w, http.StatusOK, jobListResponse{
		Jobs: jobs,
		Pagination: Pagination{
			Current: page.Current,
			Pages:   page.Pages,
			Total:   page.Total,
		},
	})
}

// Get handles GET /api/jobs/{id} — public.
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"job": job})
}

// Create handles POST /api/jobs — admin only. The posting is owned by
// the authenticated admin.
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	job, err := h.service.Create(r.Context(), user.ID, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"job": job})
}

// Update handles PUT /api/jobs/{id} — admin only, partial update.
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	job, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"job": job})
}

// Delete handles DELETE /api/jobs/{id} — admin only. Applications go
// with the posting.
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "job deleted"})
}
