package chi

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyHeader carries the index-write API key.
const APIKeyHeader = "x-api-key"

// APIKeyMiddleware guards write routes with a shared API key. With no key
// configured every request is refused with 500, so an unconfigured
// deployment never accepts writes.
func APIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				writeError(w, http.StatusInternalServerError, CodeMisconfigured, "server misconfiguration: api key not set")
				return
			}

			got := r.Header.Get(APIKeyHeader)
			if got == "" {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing api key header 'x-api-key'")
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) != 1 {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
