// Package handler contains the HTTP layer: request parsing, response
// writing, and nothing else. All business rules live in the service
// layer; a handler's job is translation between HTTP and domain types.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/auth"
	"github.com/sakif/jobboard/internal/model"
	"github.com/sakif/jobboard/internal/service"
)

// AuthHandler serves registration, login, logout, and the current-user
// endpoint.
type AuthHandler struct {
	service *service.AuthService
	tokens  *auth.TokenService
}

func NewAuthHandler(service *service.AuthService, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{service: service, tokens: tokens}
}

type registerRequest struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Role       string   `json:"role"`
	Phone      string   `json:"phone"`
	Location   string   `json:"location"`
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the body of a successful register or login. The token
// appears both here and in the session cookie: the body copy feeds
// Authorization headers, the cookie keeps browser sessions alive.
type authResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	user, token, err := h.service.Register(r.Context(), service.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Phone:      req.Phone,
		Location:   req.Location,
		Skills:     req.Skills,
		Experience: req.Experience,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so logout
// is purely client-side state: clear the cookie and let any header copy
// age out at its embedded expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me handles GET /api/auth/me. The middleware already resolved the token
// into a live user row, so this is a pure context read.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// setSessionCookie attaches the token as an HttpOnly cookie whose MaxAge
// matches the token lifetime, so cookie and token expire together.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.Expiry().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
