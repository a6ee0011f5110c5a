// Package token mints and validates the signed session cookie value.
//
// The cookie carries an HS256 JWT wrapping the server-side session ID, so a
// tampered cookie is rejected by signature check before the session store is
// ever consulted. The JWT is a transport envelope only: session state itself
// lives in the session store.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "legado/pkg/domain"
	dErrors "legado/pkg/domain-errors"
)

const issuer = "legado"

// Claims are the session-cookie JWT claims.
type Claims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// Service handles session token creation and validation.
type Service struct {
	signingKey []byte
}

func NewService(signingKey string) *Service {
	return &Service{signingKey: []byte(signingKey)}
}

// Mint signs a session token valid for the given duration.
func (s *Service) Mint(sessionID id.SessionID, expiresIn time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SessionID: sessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			ID:        uuid.NewString(),
		},
	})
	return t.SignedString(s.signingKey)
}

// Validate checks the signature and expiry and returns the embedded session ID.
func (s *Service) Validate(tokenString string) (id.SessionID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return id.SessionID{}, dErrors.New(dErrors.CodeUnauthorized, "session token has expired")
		}
		return id.SessionID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return id.SessionID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid session token claims")
	}

	sessionID, err := id.ParseSessionID(claims.SessionID)
	if err != nil {
		return id.SessionID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid session token claims")
	}
	return sessionID, nil
}
