// Package app holds the application services and business logic.
package app

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"caltrack/internal/domain"

	"github.com/golang-jwt/jwt/v4"
)

// Access tokens are short-lived and verified statelessly; refresh tokens
// are opaque strings persisted on the user row.
const (
	AccessTokenTTL  = 30 * time.Minute
	RefreshTokenTTL = 30 * 24 * time.Hour
)

// ErrInvalidToken indicates a token that failed signature or expiry checks.
var ErrInvalidToken = errors.New("Invalid or expired token")

type accessClaims struct {
	UserID int64  `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed access tokens.
type TokenService struct {
	secret    []byte
	accessTTL time.Duration
}

// NewTokenService creates a TokenService. An empty secret is a server
// configuration error and refuses construction.
func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is not configured")
	}
	return &TokenService{secret: []byte(secret), accessTTL: AccessTokenTTL}, nil
}

// IssueAccessToken signs a short-lived token embedding the identity.
// expiresIn is the token lifetime in seconds.
func (s *TokenService) IssueAccessToken(id int64, role string) (token string, expiresIn int64, err error) {
	now := time.Now()
	claims := accessClaims{
		UserID: id,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", 0, err
	}
	return token, int64(s.accessTTL.Seconds()), nil
}

// Verify checks signature and expiry without consulting the database.
func (s *TokenService) Verify(token string) (domain.Identity, error) {
	var claims accessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.Identity{}, ErrInvalidToken
	}
	return domain.Identity{ID: claims.UserID, Role: claims.Role}, nil
}

// NewRefreshToken mints an opaque refresh token. Validity lives entirely
// in the database: the stored value plus its absolute expiry.
func NewRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
