package handler

import (
	"net/http"

	"github.com/sakif/jobboard/internal/model"
	"github.com/sakif/jobboard/internal/service"
)

// UserHandler serves the admin user directory.
type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type userListResponse struct {
	Users      []model.User `json:"users"`
	Pagination Pagination   `json:"pagination"`
}

// List handles GET /api/users — admin only, optional role filter.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(),
		r.URL.Query().Get("role"),
		queryInt(r, "page", 1),
		queryInt(r, "limit", service.DefaultPageSize),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	users := page.Users
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, userListResponse{
		Users: users,
		Pagination: Pagination{
			Current: page.Current,
			Pages:   page.Pages,
			Total:   page.Total,
		},
	})
}

// Stats handles GET /api/users/stats — admin dashboard headcount.
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}
