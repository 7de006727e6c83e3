package httputil

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP extracts the originating client IP from a request, looking
// at proxy headers before falling back to the socket address. The
// first entry of X-Forwarded-For wins, then X-Real-IP, then
// RemoteAddr with any port stripped.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
