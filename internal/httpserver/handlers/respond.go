package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/linkring/linkring/internal/board"
	"github.com/linkring/linkring/internal/domain"
	"github.com/linkring/linkring/internal/httpserver/deps"
	"github.com/linkring/linkring/internal/notice"
	"github.com/linkring/linkring/internal/session"
)

// userHeader carries the opaque userId issued at sign-in.
const userHeader = "X-User-ID"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// currentSession resolves the caller's session from the identity
// header, opening one on first use.
func currentSession(d deps.Deps, r *http.Request) (*session.Session, bool) {
	userID := r.Header.Get(userHeader)
	if userID == "" {
		return nil, false
	}
	return d.Sessions.Open(d.BaseCtx, userID), true
}

// failMutation posts the user-facing notice for a mutation error and
// writes the matching status. All four failure taxa surface the same
// way, only the status differs.
func failMutation(w http.ResponseWriter, s *session.Session, err error) {
	msg := board.UserMessage(err)
	if s != nil {
		s.Notices.Post(msg, notice.Error)
		s.NotifyChanged()
	}

	status := http.StatusInternalServerError
	var validation *board.ValidationError
	var gate *board.GateError
	var precursor *board.PrecursorError
	var remote *board.RemoteFailure
	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	case errors.As(err, &gate), errors.As(err, &precursor):
		status = http.StatusForbidden
	case errors.As(err, &remote):
		status = http.StatusBadGateway
	}

	writeJSON(w, status, map[string]any{
		"notice": notice.Notice{Text: msg, Kind: notice.Error},
	})
}

type linkView struct {
	ID              string         `json:"id"`
	URL             string         `json:"url"`
	SubmitterName   string         `json:"submitterName"`
	SubmitterHandle string         `json:"submitterHandle"`
	CreatedAt       *time.Time     `json:"createdAt,omitempty"`
	EngagementCount int            `json:"engagementCount"`
	ReactionCounts  map[string]int `json:"reactionCounts"`
	HasEngaged      bool           `json:"hasEngaged"`
	OwnReaction     string         `json:"ownReaction,omitempty"`
}

type boardSnapshot struct {
	UserID      string          `json:"userId"`
	Onboarded   bool            `json:"onboarded"`
	Profile     *domain.Profile `json:"profile,omitempty"`
	CanSubmit   bool            `json:"canSubmit"`
	GateMessage string          `json:"gateMessage,omitempty"`
	Links       []linkView      `json:"links"`
	Notice      *notice.Notice  `json:"notice,omitempty"`
}

// buildSnapshot renders the caller's current view of the board from
// the local replicas: links in display order with per-user flags, the
// profile, the gate verdict, and any active notice.
func buildSnapshot(d deps.Deps, s *session.Session) boardSnapshot {
	links := d.Board.Links()
	views := make([]linkView, 0, len(links))
	for _, link := range links {
		view := linkView{
			ID:              link.ID,
			URL:             link.URL,
			SubmitterName:   link.SubmitterName,
			SubmitterHandle: link.SubmitterHandle,
			EngagementCount: len(link.Engagements),
			ReactionCounts:  make(map[string]int),
			HasEngaged:      link.HasEngaged(s.UserID),
			OwnReaction:     link.Reactions[s.UserID],
		}
		if !link.CreatedAt.IsZero() {
			at := link.CreatedAt
			view.CreatedAt = &at
		}
		for _, kind := range link.Reactions {
			view.ReactionCounts[kind]++
		}
		views = append(views, view)
	}

	gate := d.BoardSvc.SubmitGate(s.User)
	return boardSnapshot{
		UserID:      s.UserID,
		Onboarded:   s.User.Onboarded(),
		Profile:     s.User.Profile(),
		CanSubmit:   gate == domain.GateAllowed,
		GateMessage: gate.Message(),
		Links:       views,
		Notice:      s.Notices.Current(),
	}
}
