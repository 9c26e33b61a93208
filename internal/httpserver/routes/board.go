package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/linkring/linkring/internal/httpserver/deps"
	"github.com/linkring/linkring/internal/httpserver/handlers"
)

func init() { Register(registerBoard) }

func registerBoard(r chi.Router, d deps.Deps) {
	r.Get("/api/board", handlers.Board(d))
	r.Get("/api/feed", handlers.Feed(d))
}
