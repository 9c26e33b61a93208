package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/linkring/linkring/internal/logger"
)

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestResolveWithToken(t *testing.T) {
	log := logger.New("error", false)
	p := NewProvider("test-secret", log)

	token := signToken(t, "test-secret", "user-123")

	userID, err := p.Resolve(token)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if userID != "user-123" {
		t.Errorf("Resolve() = %s, want user-123", userID)
	}
}

func TestResolveRejectsBadToken(t *testing.T) {
	log := logger.New("error", false)
	p := NewProvider("test-secret", log)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "wrong secret",
			token: signToken(t, "other-secret", "user-123"),
		},
		{
			name:  "garbage",
			token: "not.a.token",
		},
		{
			name: "missing subject",
			token: func() string {
				tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{})
				s, _ := tok.SignedString([]byte("test-secret"))
				return s
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.Resolve(tt.token); err == nil {
				t.Error("Resolve() should have failed")
			}
		})
	}
}

func TestResolveAnonymous(t *testing.T) {
	log := logger.New("error", false)
	p := NewProvider("", log)

	userID, err := p.Resolve("")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if _, err := uuid.Parse(userID); err != nil {
		t.Errorf("anonymous userId %q is not a uuid: %v", userID, err)
	}

	other, _ := p.Resolve("")
	if other == userID {
		t.Error("anonymous ids should be unique per sign-in")
	}
}

func TestVerifyTokenDisabledWithoutSecret(t *testing.T) {
	log := logger.New("error", false)
	p := NewProvider("", log)

	token := signToken(t, "any", "user-123")
	if _, err := p.Resolve(token); err == nil {
		t.Error("token sign-in should be refused when no secret is configured")
	}
}
