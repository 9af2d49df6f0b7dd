// internal/api/middleware/bodylimit.go
package middleware

import "net/http"

// BodyLimit caps request body size at n bytes. Reads past the cap fail with
// *http.MaxBytesError, which the handlers translate to 413.
func BodyLimit(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
