package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/jobboard/internal/model"
)

// CookieName is the HttpOnly cookie carrying the session token for browser
// clients. API clients send the same token as "Authorization: Bearer <token>".
const CookieName = "auth-token"

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string,
// ANY package that knows the string can read or shadow your value. A
// package-private type means only this package can touch the stored user.
type contextKey string

const userKey contextKey = "user"

// UserStore is the subset of the user repository the middleware needs to
// resolve a token subject into a live account.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// RequireAuth enforces authentication on protected routes.
//
// TOKEN RESOLUTION ORDER:
//  1. Authorization: Bearer <token> header (client-side fetches)
//  2. auth-token cookie (server-rendered browser sessions)
//
// On a valid token the user row is loaded and attached to the request
// context — handlers get the full account, not just an ID, mirroring the
// rest of the API's "resolved identity" contract. A syntactically valid
// token whose subject no longer exists (deleted account) is rejected with
// 401 like any other bad token.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware is a function that takes an http.Handler and returns a new
// http.Handler wrapping it. Chi applies middlewares in a chain:
// req → M1 → M2 → Handler → M2 → M1 → resp.
func RequireAuth(tokens *TokenService, users UserStore, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := extractToken(r)
			if tokenStr == "" {
				unauthorized(w)
				return
			}

			userID, _, err := tokens.Validate(tokenStr)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				logger.Warn("auth: token subject does not resolve",
					slog.String("userID", userID),
				)
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects any request whose resolved user is not an admin.
//
// It composes on top of RequireAuth — mount both, in order:
//
//	r.Use(auth.RequireAuth(tokens, users, logger))
//	r.Use(auth.RequireAdmin())
//
// RequireAuth has already resolved and validated the token, so the admin
// gate only needs to look at the user it left in the context.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				// RequireAdmin mounted without RequireAuth — treat as unauthenticated.
				unauthorized(w)
				return
			}
			if user.Role != model.RoleAdmin {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error":"forbidden","message":"admin access required"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext retrieves the authenticated user from the request context.
// Returns (nil, false) on routes that did not pass through RequireAuth.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// extractToken pulls the JWT from the Authorization header, falling back to
// the session cookie. Header wins when both are present so an API client
// can act as a different user than the browser session it runs in.
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, found := strings.CutPrefix(header, "Bearer "); found {
			return token
		}
		return ""
	}

	cookie, err := r.Cookie(CookieName)
	if err != nil {
		// http.ErrNoCookie — no session, anonymous request
		return ""
	}
	return cookie.Value
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
}
