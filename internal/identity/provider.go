package identity

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/linkring/linkring/internal/logger"
)

// Provider is the identity collaborator. It either verifies a
// pre-issued token and extracts the stable opaque userId it carries,
// or mints a fresh anonymous identity. The core only ever consumes
// the resulting userId string.
type Provider struct {
	secret []byte
	logger logger.Logger
}

// NewProvider creates an identity provider. An empty secret disables
// token sign-in: every caller without a token gets an anonymous id.
func NewProvider(secret string, log logger.Logger) *Provider {
	return &Provider{
		secret: []byte(secret),
		logger: log,
	}
}

// Resolve returns the userId for a sign-in attempt. A non-empty token
// must verify; an empty token falls back to anonymous sign-in.
func (p *Provider) Resolve(token string) (string, error) {
	if token == "" {
		id := p.Anonymous()
		p.logger.Debug("anonymous sign-in", logger.String("user_id", id))
		return id, nil
	}
	return p.VerifyToken(token)
}

// VerifyToken checks a pre-issued HS256 token and returns the stable
// userId from its subject claim.
func (p *Provider) VerifyToken(token string) (string, error) {
	if len(p.secret) == 0 {
		return "", fmt.Errorf("token sign-in is not configured")
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to verify token: %w", err)
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("token carries no user identity")
	}

	return subject, nil
}

// Anonymous mints a fresh opaque userId.
func (p *Provider) Anonymous() string {
	return uuid.NewString()
}
