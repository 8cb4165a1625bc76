package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/vincejv/fpi-login-api/pkg/httpx"
)

// TrustedKeyHeader carries the shared credential that identifies a
// pre-authorized webhook relay.
const TrustedKeyHeader = "X-Trusted-Key"

// TrustedKeyMiddleware rejects requests whose trusted-key header does not
// match the configured key. The comparison is constant time so the header
// cannot be probed byte by byte.
func TrustedKeyMiddleware(key string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get(TrustedKeyHeader)
			if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
				httpx.WriteError(w, http.StatusUnauthorized, "not_authorized", "invalid trusted key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
