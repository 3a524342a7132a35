// catalog-service/internal/api/ratelimit.go
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"
	"github.com/gorilla/mux"
)

// RateLimit limits each client IP to limit requests per window on the routes
// it wraps. Rejected requests get 429 with a Retry-After header.
func RateLimit(limit int, window time.Duration) mux.MiddlewareFunc {
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Too many requests"}` + "\n"))
		}),
	)
}
