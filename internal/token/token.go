// Package token issues and verifies the signed, time-limited bearer tokens
// that carry an authenticated subject between requests. Tokens are stateless
// and not revocable; logout is client-side discard.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL applies when Issue is called without an explicit lifetime.
const DefaultTTL = 15 * time.Minute

// Manager signs and verifies HS256 tokens with a shared secret.
type Manager struct {
	secret []byte
}

func NewManager(secret string) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	return &Manager{secret: []byte(secret)}, nil
}

// Issue creates a signed token for subject expiring after ttl.
// A non-positive ttl falls back to DefaultTTL.
func (m *Manager) Issue(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks signature and expiry and returns the embedded subject.
// Any failure (bad signature, expired, malformed, missing subject) yields
// ("", false); Verify never panics or surfaces parse errors.
func (m *Manager) Verify(tokenString string) (string, bool) {
	claims := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !parsed.Valid {
		return "", false
	}
	if claims.Subject == "" {
		return "", false
	}

	return claims.Subject, true
}
