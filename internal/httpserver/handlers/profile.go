package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/linkring/linkring/internal/httpserver/deps"
	"github.com/linkring/linkring/internal/notice"
)

type onboardRequest struct {
	Name   string `json:"name"`
	Handle string `json:"handle"`
}

// Onboard merge-writes the caller's display identity and updates the
// session replica optimistically, ahead of the subscription push.
func Onboard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(d, r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "sign in first"})
			return
		}

		var req onboardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		profile, err := d.BoardSvc.Onboard(r.Context(), s.UserID, req.Name, req.Handle)
		if err != nil {
			failMutation(w, s, err)
			return
		}

		s.User.Set(profile)
		s.Notices.Post("Profile saved successfully!", notice.Success)
		s.NotifyChanged()

		writeJSON(w, http.StatusOK, map[string]any{
			"profile": profile,
			"notice":  s.Notices.Current(),
		})
	}
}
