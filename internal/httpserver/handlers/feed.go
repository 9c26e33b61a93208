package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/linkring/linkring/internal/httpserver/deps"
	"github.com/linkring/linkring/internal/logger"
	"github.com/linkring/linkring/internal/utils"
)

const (
	feedWriteTimeout = 10 * time.Second
	feedPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is already CORS-open; the feed follows suit.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Feed is the realtime board feed: one websocket per session, pushed
// a fresh snapshot whenever the sync layer observes a change.
func Feed(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Browsers cannot set headers on websocket dials, so the
		// identity also rides a query parameter.
		userID := r.URL.Query().Get("user")
		if userID == "" {
			userID = r.Header.Get(userHeader)
		}
		if userID == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "sign in first"})
			return
		}

		s := d.Sessions.Open(d.BaseCtx, userID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			d.Logger.Warn("feed upgrade failed", logger.Error(err))
			return
		}
		defer utils.Close(conn)

		d.Logger.Debug("feed connected", logger.String("user_id", userID))

		// Read pump: only there to notice the client going away.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		// Own change channel, so several tabs for the same user each
		// get every signal.
		changes := s.Subscribe()
		defer s.Unsubscribe(changes)

		push := func() error {
			s.Touch()
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
			return conn.WriteJSON(buildSnapshot(d, s))
		}

		if err := push(); err != nil {
			return
		}

		ticker := time.NewTicker(feedPingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-changes:
				if err := push(); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil,
					time.Now().Add(feedWriteTimeout)); err != nil {
					return
				}
			case <-done:
				return
			case <-r.Context().Done():
				return
			}
		}
	}
}
