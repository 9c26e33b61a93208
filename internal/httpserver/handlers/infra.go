package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/linkring/linkring/internal/httpserver/deps"
)

type componentStatus struct {
	OK          bool   `json:"ok"`
	LinksLoaded *int   `json:"links_loaded,omitempty"`
	LastSync    string `json:"last_sync,omitempty"`
	Sessions    *int   `json:"sessions,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Impact      string `json:"impact,omitempty"`
	Error       string `json:"error,omitempty"`
}

type infraResponse struct {
	BoardMode  string                     `json:"board_mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		linkCount := d.Board.Count()
		lastSync := d.Board.LastSync()
		lastSyncStr := "never"
		if !lastSync.IsZero() {
			lastSyncStr = lastSync.Format("2006-01-02 15:04:05")
		}
		sessionCount := d.Sessions.Count()

		redisStatus := checkRedis(d)

		components := map[string]componentStatus{
			"replica": {
				OK:          !lastSync.IsZero(),
				LinksLoaded: &linkCount,
				LastSync:    lastSyncStr,
			},
			"redis": redisStatus,
			"sessions": {
				OK:       true,
				Sessions: &sessionCount,
			},
			"seeder": {
				OK:   d.SeedReloadTrigger != nil,
				Mode: seederMode(d),
			},
		}

		response := infraResponse{
			BoardMode:  determineBoardMode(components),
			Components: components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func seederMode(d deps.Deps) string {
	if d.SeedReloadTrigger == nil {
		return "disabled"
	}
	return "scheduled"
}

func determineBoardMode(components map[string]componentStatus) string {
	// Redis down means no mutations and no sync: the board is frozen
	// on whatever the replica last saw.
	if redis, exists := components["redis"]; exists && !redis.OK {
		return "frozen"
	}

	// Replica never synced yet: serving, but the board looks empty.
	if replica, exists := components["replica"]; exists && !replica.OK {
		return "warming"
	}

	return "live"
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "frozen",
			Impact: "mutations-disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "frozen",
			Impact: "mutations-disabled",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "mutations-enabled",
		Error:  "none",
	}
}
