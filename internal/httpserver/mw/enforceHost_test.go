package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/linkring/linkring/internal/logger"
)

func TestMatchHost(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		pattern string
		want    bool
	}{
		{"exact match", "board.example.com", "board.example.com", true},
		{"exact mismatch", "evil.example.com", "board.example.com", false},
		{"wildcard subdomain", "ops.example.com", "*.example.com", true},
		{"wildcard deep subdomain", "a.b.example.com", "*.example.com", true},
		{"wildcard wrong suffix", "example.org", "*.example.com", false},
		{"wildcard does not match apex", "example.com", "*.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchHost(tt.host, tt.pattern); got != tt.want {
				t.Errorf("matchHost(%q, %q) = %v, want %v", tt.host, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestEnforceHost(t *testing.T) {
	log := logger.New("error", false)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		allowed    []string
		host       string
		wantStatus int
	}{
		{"allowed exact host", []string{"ops.linkring.local"}, "ops.linkring.local", http.StatusOK},
		{"allowed wildcard host", []string{"*.linkring.local"}, "ops.linkring.local", http.StatusOK},
		{"rejected host", []string{"ops.linkring.local"}, "evil.local", http.StatusForbidden},
		{"empty list is passthrough", nil, "anything.local", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := EnforceHost(tt.allowed, log)(next)

			req := httptest.NewRequest(http.MethodGet, "/reload", nil)
			req.Host = tt.host
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
