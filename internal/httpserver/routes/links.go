package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/linkring/linkring/internal/httpserver/deps"
	"github.com/linkring/linkring/internal/httpserver/handlers"
)

func init() { Register(registerLinks) }

func registerLinks(r chi.Router, d deps.Deps) {
	sub := r.With(mutationLimiter(d))
	sub.Post("/api/links", handlers.Submit(d))
	sub.Post("/api/links/{id}/engage", handlers.Engage(d))
	sub.Post("/api/links/{id}/react", handlers.React(d))
}
