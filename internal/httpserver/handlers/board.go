package handlers

import (
	"net/http"

	"github.com/linkring/linkring/internal/httpserver/deps"
)

// Board returns the caller's current snapshot of the board from the
// local replicas.
func Board(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(d, r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "sign in first"})
			return
		}

		writeJSON(w, http.StatusOK, buildSnapshot(d, s))
	}
}
