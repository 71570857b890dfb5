package middleware

import (
	"crypto/subtle"
	"net/http"

	pkghttp "github.com/closerly/backend/pkg/http"
)

// AdminKeyHeader carries the pre-shared admin key on panel routes
const AdminKeyHeader = "X-Admin-Key"

// RequireAdminKey rejects requests whose admin key header does not match the
// configured key. Comparison is constant-time.
func RequireAdminKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(AdminKeyHeader)
			if key == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				pkghttp.WriteUnauthorized(w, "invalid admin key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
