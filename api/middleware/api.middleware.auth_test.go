package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/auth"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/config"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/stretchr/testify/require"
)

func newTestMiddleware(t *testing.T) (*AuthMiddleware, *auth.Service) {
	t.Helper()
	svc := auth.New(nil, config.AuthConfig{JWTSecret: "secret"})
	return NewAuthMiddleware(svc), svc
}

func token(t *testing.T, svc *auth.Service, role models.UserRole) string {
	t.Helper()
	tok, err := svc.IssueToken(&models.User{ID: "usr_1", Email: "a@b.c", Role: role})
	require.NoError(t, err)
	return tok
}

func TestAuthenticate(t *testing.T) {
	mw, svc := newTestMiddleware(t)
	var seen *auth.Claims
	h := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nonsense")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, svc, models.RoleViewer))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	require.Equal(t, "usr_1", seen.Subject)
}

func TestRequireRoles(t *testing.T) {
	mw, svc := newTestMiddleware(t)
	h := mw.Authenticate(mw.RequireRoles(models.RoleAdmin, models.RoleOperator)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }),
	))

	for role, want := range map[models.UserRole]int{
		models.RoleAdmin:    http.StatusNoContent,
		models.RoleOperator: http.StatusNoContent,
		models.RoleViewer:   http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, svc, role))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, want, rec.Code, role)
	}
}
