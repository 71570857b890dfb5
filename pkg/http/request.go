package http

import (
	"net/http"
	"strings"
)

// unknownAddress is persisted when no address header is present
const unknownAddress = "unknown"

// ResolveClientIP returns the caller's best-effort network address: the first
// entry of X-Forwarded-For, then X-Real-IP, then CF-Connecting-IP, falling
// back to "unknown". The first present header wins; the value is stored
// verbatim, without format validation.
func ResolveClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if first != "" {
			return first
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	if cf := r.Header.Get("CF-Connecting-IP"); cf != "" {
		return cf
	}

	return unknownAddress
}
