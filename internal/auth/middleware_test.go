package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(t *testing.T, assertCtx func(r *http.Request)) http.Handler {
	t.Helper()
	return RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if assertCtx != nil {
			assertCtx(r)
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRequireAuth_MissingBearer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "42")

	rec := httptest.NewRecorder()
	protected(t, nil).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_NotBearerScheme(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	req.Header.Set(HeaderUserID, "42")

	rec := httptest.NewRecorder()
	protected(t, nil).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_InvalidUserID(t *testing.T) {
	cases := []string{"", "abc", "0", "-1"}
	for _, uid := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer tok-123")
		req.Header.Set(HeaderUserID, uid)

		rec := httptest.NewRecorder()
		protected(t, nil).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "user id %q", uid)
	}
}

func TestRequireAuth_StoresIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok-123")
	req.Header.Set(HeaderUserID, "42")
	req.Header.Set(HeaderPermissions, "Orden.Crear, Orden.Ver")

	var checked bool
	rec := httptest.NewRecorder()
	protected(t, func(r *http.Request) {
		checked = true
		assert.Equal(t, int64(42), UserID(r.Context()))
		assert.Equal(t, "tok-123", Token(r.Context()))
		assert.True(t, HasPermission(r.Context(), "Orden.Crear"))
		assert.True(t, HasPermission(r.Context(), "orden.ver"), "tags match case-insensitively")
		assert.False(t, HasPermission(r.Context(), "Orden.Eliminar"))
	}).ServeHTTP(rec, req)

	require.True(t, checked)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequirePermission(t *testing.T) {
	handler := RequireAuth(RequirePermission("Orden.Crear")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer tok-123")
	req.Header.Set(HeaderUserID, "42")
	req.Header.Set(HeaderPermissions, "Orden.Ver")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req.Header.Set(HeaderPermissions, "Orden.Ver,Orden.Crear")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIdentityAbsentFromBareContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, int64(0), UserID(req.Context()))
	assert.Equal(t, "", Token(req.Context()))
	assert.False(t, HasPermission(req.Context(), "Orden.Crear"))
}
