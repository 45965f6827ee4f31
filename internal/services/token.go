package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hmusa/medcatalog-backend/internal/apperr"
)

// TokenDuration is how long an issued token stays valid.
const TokenDuration = 7 * 24 * time.Hour

// Identity is what a verified token proves: who the subject is and
// which role they hold.
type Identity struct {
	UserID string
	Role   string
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-limited identity tokens.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a token embedding the subject id and role, valid for
// TokenDuration from now.
func (s *TokenService) Issue(userID, role string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the signature and expiry and returns the embedded
// identity. Every failure mode maps to a single auth error.
func (s *TokenService) Verify(tokenString string) (*Identity, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, apperr.Auth("invalid or expired token")
	}
	if claims.Subject == "" || claims.Role == "" {
		return nil, apperr.Auth("invalid or expired token")
	}

	return &Identity{UserID: claims.Subject, Role: claims.Role}, nil
}
