package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/undokids/undokids/internal/admin/domain"
)

var ErrSessionInvalid = errors.New("identity: session invalid or expired")

// Verifier checks session tokens locally against the project's shared
// HS256 secret instead of round-tripping to the auth service on every
// request. The hosted service signs every session JWT with this secret.
type Verifier struct {
	Secret []byte
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// VerifySession parses and validates a session token. Expired, malformed
// or badly signed tokens all map onto ErrSessionInvalid; the gate treats
// them the same as a missing session.
func (v *Verifier) VerifySession(token string) (domain.Session, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.Secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return domain.Session{}, ErrSessionInvalid
	}

	if claims.Subject == "" {
		return domain.Session{}, ErrSessionInvalid
	}

	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}

	return domain.Session{
		UserID:    claims.Subject,
		Email:     claims.Email,
		ExpiresAt: expires,
	}, nil
}
