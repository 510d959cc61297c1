// Package auth turns bearer tokens into the acting user the content layer
// operates on behalf of. It is the boundary an authentication strategy calls
// into; password handling lives outside this module.
package auth

import (
	"errors"
	"fmt"
	"time"

	"stratum/pkg/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned when a token fails signature or claims
	// validation.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims carried by a stratum token: the subject is the user id, permissions
// are the group-scoped rights the content layer parses.
type Claims struct {
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies user tokens with a shared HMAC secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewTokenService builds a token service. TTL defaults to one hour.
func NewTokenService(secret string, ttl time.Duration, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("auth: token secret is required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, issuer: issuer}, nil
}

// Issue mints a token for the user.
func (s *TokenService) Issue(user *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Permissions: user.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse verifies a token and returns the acting user with its permissions
// parsed.
func (s *TokenService) Parse(tokenString string) (*model.User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return model.NewUser(claims.Subject, claims.Permissions), nil
}
