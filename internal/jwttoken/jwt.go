// Package jwttoken signs and validates the self-contained session tokens
// used by the stateless store backend. Claims carry the denormalized user
// projection only; the provider bearer token is never embedded.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"guildgate/internal/auth/models"
	dErrors "guildgate/pkg/domain-errors"
)

// Claims represents the session claims embedded in the signed token.
type Claims struct {
	User   models.User `json:"user"`
	Device string      `json:"device,omitempty"`
	jwt.RegisteredClaims
}

// Service handles session token creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
}

func NewService(signingKey, issuer string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
}

// Generate signs a session into a token with the given lifetime. Returns the
// signed token and its JTI, which the revocation list is keyed by.
func (s *Service) Generate(session models.Session, ttl time.Duration) (string, string, error) {
	jti := uuid.NewString()
	now := session.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		User:   session.User,
		Device: session.Device,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.User.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        jti,
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

// Validate parses and verifies a token, returning its claims.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}
