package utils

import (
	"errors"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateActorJWT signs a token carrying the actor's id as subject and its
// treasury role. Production tokens come from the identity provider; this is
// used for local development and tests.
func GenerateActorJWT(actor domain.Actor, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	if actor.UserID == "" {
		return "", errors.New("actor user id is required")
	}
	if secret == "" {
		return "", errors.New("signing secret is required")
	}
	now := time.Now()
	claims := middleware.TreasuryClaims{
		Role: string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   actor.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
