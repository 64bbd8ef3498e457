package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/model"
)

// fakeUserStore resolves token subjects from a fixed map.
type fakeUserStore struct {
	users map[string]*model.User
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return u, nil
}

func newMiddlewareFixture(t *testing.T) (*TokenService, *fakeUserStore) {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	store := &fakeUserStore{users: map[string]*model.User{
		"seeker-1": {ID: "seeker-1", Name: "Seeker", Role: model.RoleJobSeeker},
		"admin-1":  {ID: "admin-1", Name: "Admin", Role: model.RoleAdmin},
	}}
	return ts, store
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// protected returns a handler that records whether it ran and which user
// it saw in the request context.
func protected(ran *bool, seen **model.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*ran = true
		if u, ok := UserFromContext(r.Context()); ok {
			*seen = u
		}
		w.WriteHeader(http.StatusOK)
	})
}

// =========================================================================
// RequireAuth TESTS
// =========================================================================

func TestRequireAuth_NoToken(t *testing.T) {
	ts, store := newMiddlewareFixture(t)

	var ran bool
	var seen *model.User
	mw := RequireAuth(ts, store, quietLogger())(protected(&ran, &seen))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
	if ran {
		t.Error("handler ran despite missing token")
	}
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	ts, store := newMiddlewareFixture(t)
	token, _ := ts.Generate("seeker-1", model.RoleJobSeeker)

	var ran bool
	var seen *model.User
	mw := RequireAuth(ts, store, quietLogger())(protected(&ran, &seen))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if seen == nil || seen.ID != "seeker-1" {
		t.Errorf("context user = %+v, want seeker-1", seen)
	}
}

func TestRequireAuth_CookieFallback(t *testing.T) {
	ts, store := newMiddlewareFixture(t)
	token, _ := ts.Generate("seeker-1", model.RoleJobSeeker)

	var ran bool
	var seen *model.User
	mw := RequireAuth(ts, store, quietLogger())(protected(&ran, &seen))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (cookie should authenticate)", rr.Code)
	}
	if !ran {
		t.Error("handler did not run with a valid session cookie")
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	ts, store := newMiddlewareFixture(t)
	token, _ := ts.GenerateWithDuration("seeker-1", model.RoleJobSeeker, -time.Second)

	var ran bool
	var seen *model.User
	mw := RequireAuth(ts, store, quietLogger())(protected(&ran, &seen))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for expired token", rr.Code)
	}
}

func TestRequireAuth_DeletedAccount(t *testing.T) {
	ts, store := newMiddlewareFixture(t)

	// Token is syntactically valid but its subject no longer exists
	token, _ := ts.Generate("ghost-user", model.RoleJobSeeker)

	var ran bool
	var seen *model.User
	mw := RequireAuth(ts, store, quietLogger())(protected(&ran, &seen))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for deleted account", rr.Code)
	}
	if ran {
		t.Error("handler ran for a token whose subject is gone")
	}
}

func TestRequireAuth_MalformedAuthorizationHeader(t *testing.T) {
	ts, store := newMiddlewareFixture(t)
	token, _ := ts.Generate("seeker-1", model.RoleJobSeeker)

	var ran bool
	var seen *model.User
	mw := RequireAuth(ts, store, quietLogger())(protected(&ran, &seen))

	// "Token xyz" is not a Bearer scheme — and the presence of the header
	// means the cookie is not consulted.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token "+token)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for non-Bearer header", rr.Code)
	}
}

// =========================================================================
// RequireAdmin TESTS
// =========================================================================

func TestRequireAdmin_AdminPasses(t *testing.T) {
	ts, store := newMiddlewareFixture(t)
	token, _ := ts.Generate("admin-1", model.RoleAdmin)

	var ran bool
	var seen *model.User
	mw := RequireAuth(ts, store, quietLogger())(RequireAdmin()(protected(&ran, &seen)))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for admin", rr.Code)
	}
	if !ran {
		t.Error("handler did not run for an admin")
	}
}

func TestRequireAdmin_SeekerForbidden(t *testing.T) {
	ts, store := newMiddlewareFixture(t)
	token, _ := ts.Generate("seeker-1", model.RoleJobSeeker)

	var ran bool
	var seen *model.User
	mw := RequireAuth(ts, store, quietLogger())(RequireAdmin()(protected(&ran, &seen)))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	// Authenticated but not authorised: 403, not 401
	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for non-admin", rr.Code)
	}
	if ran {
		t.Error("handler ran for a non-admin")
	}
}

func TestRequireAdmin_WithoutRequireAuth(t *testing.T) {
	var ran bool
	var seen *model.User
	mw := RequireAdmin()(protected(&ran, &seen))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	// No resolved user in context — treated as unauthenticated
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 when mounted without RequireAuth", rr.Code)
	}
}
