// internal/httpserver/mw/timeout.go
package mw

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// TimeoutExcept applies a per-request timeout like middleware.Timeout,
// but skips the listed paths. Long-lived endpoints (the websocket feed)
// must not have their context cancelled after a few seconds.
func TimeoutExcept(timeout time.Duration, skip ...string) func(http.Handler) http.Handler {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		timed := middleware.Timeout(timeout)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skipped[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			timed.ServeHTTP(w, r)
		})
	}
}
