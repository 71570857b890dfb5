package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/closerly/backend/internal/middleware"
	"github.com/stretchr/testify/assert"
)

func adminProtectedHandler(key string) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return middleware.RequireAdminKey(key)(next)
}

func TestRequireAdminKey_ValidKey(t *testing.T) {
	handler := adminProtectedHandler("the-admin-key-0123")

	req := httptest.NewRequest("GET", "/api/admin/bookings", nil)
	req.Header.Set(middleware.AdminKeyHeader, "the-admin-key-0123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdminKey_WrongKey(t *testing.T) {
	handler := adminProtectedHandler("the-admin-key-0123")

	req := httptest.NewRequest("GET", "/api/admin/bookings", nil)
	req.Header.Set(middleware.AdminKeyHeader, "wrong")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminKey_MissingHeader(t *testing.T) {
	handler := adminProtectedHandler("the-admin-key-0123")

	req := httptest.NewRequest("GET", "/api/admin/bookings", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminKey_EmptyConfiguredKeyLocksOut(t *testing.T) {
	handler := adminProtectedHandler("")

	req := httptest.NewRequest("GET", "/api/admin/bookings", nil)
	req.Header.Set(middleware.AdminKeyHeader, "")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
