package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmusa/medcatalog-backend/internal/models"
	"github.com/hmusa/medcatalog-backend/internal/services"
)

func protectedHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		require.NotEmpty(t, identity.UserID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	handler := RequireAuth(tokens)(protectedHandler(t))

	req := httptest.NewRequest(http.MethodPost, "/api/devices", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"missing token"}`, rec.Body.String())
}

func TestRequireAuthRejectsBadHeaderFormat(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	handler := RequireAuth(tokens)(protectedHandler(t))

	req := httptest.NewRequest(http.MethodPost, "/api/devices", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthRejectsTamperedToken(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	other := services.NewTokenService("other-secret")
	handler := RequireAuth(tokens)(protectedHandler(t))

	token, err := other.Issue("user-1", models.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/devices", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthPassesValidToken(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	handler := RequireAuth(tokens)(protectedHandler(t))

	token, err := tokens.Issue("user-1", models.RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/devices", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesForbidsWrongRole(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	handler := RequireAuth(tokens)(RequireRoles(models.RoleAdmin)(protectedHandler(t)))

	token, err := tokens.Issue("user-1", models.RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/devices/abc", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// Authenticated but not authorized: 403, not 401.
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"insufficient permissions"}`, rec.Body.String())
}

func TestRequireRolesAllowsAdmin(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	handler := RequireAuth(tokens)(RequireRoles(models.RoleAdmin)(protectedHandler(t)))

	token, err := tokens.Issue("admin-1", models.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/devices/abc", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
