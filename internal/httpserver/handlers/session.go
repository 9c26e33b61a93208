package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/linkring/linkring/internal/httpserver/deps"
	"github.com/linkring/linkring/internal/logger"
)

type signInRequest struct {
	Token string `json:"token"`
}

type signInResponse struct {
	UserID    string `json:"userId"`
	Onboarded bool   `json:"onboarded"`
}

// SignIn resolves the caller's identity: a pre-issued token when one
// is presented, anonymous otherwise. The returned userId is the
// opaque handle for every later call.
func SignIn(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signInRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req) // empty body = anonymous
		}

		userID, err := d.Identity.Resolve(req.Token)
		if err != nil {
			d.Logger.Warn("sign-in refused", logger.Error(err))
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Sign-in failed. Please check your token.",
			})
			return
		}

		s := d.Sessions.Open(d.BaseCtx, userID)

		writeJSON(w, http.StatusOK, signInResponse{
			UserID:    s.UserID,
			Onboarded: s.User.Onboarded(),
		})
	}
}

// SignOut tears the caller's session down, ending its profile
// subscription.
func SignOut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(userHeader)
		if userID == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		d.Sessions.Close(userID)
		w.WriteHeader(http.StatusNoContent)
	}
}
