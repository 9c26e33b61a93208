package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/linkring/linkring/internal/httpserver/deps"
	"github.com/linkring/linkring/internal/httpserver/handlers"
	"github.com/linkring/linkring/internal/httpserver/mw"
)

func init() { Register(registerProfile) }

func registerProfile(r chi.Router, d deps.Deps) {
	r.With(mutationLimiter(d)).Post("/api/profile", handlers.Onboard(d))
}

// mutationLimiter throttles write endpoints per client IP.
func mutationLimiter(d deps.Deps) Middleware {
	return mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateBurst,
		RefillPerIPPerMin: d.RateRefillMin,
		TrustProxy:        d.TrustProxy,
	})
}
