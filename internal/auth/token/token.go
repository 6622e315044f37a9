// Package token issues and verifies the HS256 bearer tokens used by
// the API.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v4"
	"github.com/societyhq/societyhub/internal/config"
)

var (
	ErrMissingSecret = errors.New("jwt secret is not configured")
	ErrInvalidToken  = errors.New("invalid_token")
)

// Claims carried by every issued token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret    []byte
	expiresIn time.Duration
}

func NewIssuer(cfg config.Config) (*Issuer, error) {
	secret := strings.TrimSpace(cfg.JWTSecret)
	if secret == "" {
		return nil, ErrMissingSecret
	}
	expiresIn := cfg.JWTExpiresIn
	if expiresIn <= 0 {
		expiresIn = 168 * time.Hour
	}
	return &Issuer{secret: []byte(secret), expiresIn: expiresIn}, nil
}

// Issue signs a token for the given user.
func (i *Issuer) Issue(userID snowflake.ID, email string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expiresIn)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify parses the token and returns the user ID and email.
func (i *Issuer) Verify(tokenString string) (snowflake.ID, string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, "", ErrInvalidToken
	}

	userID, err := snowflake.ParseString(strings.TrimSpace(claims.UserID))
	if err != nil || userID == 0 {
		return 0, "", ErrInvalidToken
	}
	return userID, claims.Email, nil
}
