package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linkring/linkring/internal/httpserver/deps"
	"github.com/linkring/linkring/internal/notice"
)

type submitRequest struct {
	URL string `json:"url"`
}

// Submit creates a new link if the engagement gate allows it, then
// stamps the submitter's cooldown.
func Submit(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(d, r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "sign in first"})
			return
		}

		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		link, err := d.BoardSvc.Submit(r.Context(), s.User, req.URL)
		if err != nil {
			failMutation(w, s, err)
			return
		}

		s.Notices.Post("Link submitted successfully!", notice.Success)
		s.NotifyChanged()

		writeJSON(w, http.StatusCreated, map[string]any{
			"link":   link,
			"notice": s.Notices.Current(),
		})
	}
}

// Engage records that the caller opened a link and returns the URL
// for the presentation layer to open in a new viewing context.
func Engage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(d, r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "sign in first"})
			return
		}

		linkID := chi.URLParam(r, "id")

		url, err := d.BoardSvc.Engage(r.Context(), s.User, linkID)
		if err != nil {
			failMutation(w, s, err)
			return
		}

		s.Notices.Post("Engagement recorded! The link opened in a new tab.", notice.Success)
		s.NotifyChanged()

		writeJSON(w, http.StatusOK, map[string]any{
			"url":    url,
			"notice": s.Notices.Current(),
		})
	}
}

type reactRequest struct {
	Kind string `json:"kind"`
}

// React sets the caller's single reaction on a link, replacing any
// previous one.
func React(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(d, r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "sign in first"})
			return
		}

		var req reactRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		linkID := chi.URLParam(r, "id")

		if err := d.BoardSvc.React(r.Context(), s.User, linkID, req.Kind); err != nil {
			failMutation(w, s, err)
			return
		}

		s.Notices.Post(fmt.Sprintf("You reacted with %s!", req.Kind), notice.Success)
		s.NotifyChanged()

		writeJSON(w, http.StatusOK, map[string]any{
			"notice": s.Notices.Current(),
		})
	}
}
