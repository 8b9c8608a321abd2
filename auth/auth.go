package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/andrewpaige1/flashcard-saas/config"
)

const tokenTTL = 24 * time.Hour

// Issuer signs HS256 tokens for local development, when no Auth0 tenant is
// available. The tokens carry the same issuer and audience that
// middleware.EnsureValidToken checks in hs256 mode.
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewIssuer(cfg config.Auth) *Issuer {
	return &Issuer{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.TokenAudience(),
		ttl:      tokenTTL,
	}
}

func (i *Issuer) CreateToken(subject string) (string, error) {
	if len(i.secret) == 0 {
		return "", errors.New("auth: JWT secret key not set")
	}
	if subject == "" {
		return "", errors.New("auth: subject is required")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    i.issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{i.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// TTL is how long issued tokens stay valid.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}
