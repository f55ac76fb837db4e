package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/err0rre/Task-management/internal/models"
)

// TokenTTL is the fixed lifetime of an issued token.
const TokenTTL = time.Hour

// Claims defines the JWT claims structure. The subject is the user ID.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 tokens signed with a single secret
// supplied at startup.
type TokenService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenService creates a TokenService. The secret must be non-empty.
func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	return &TokenService{key: []byte(secret), ttl: TokenTTL, now: time.Now}, nil
}

// WithClock returns a copy of the service that reads time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	clone := *s
	clone.now = now
	return &clone
}

// Issue creates a signed token asserting subjectID, expiring one hour from now.
func (s *TokenService) Issue(subjectID string) (string, error) {
	if subjectID == "" {
		return "", errors.New("auth: subject is required")
	}
	issuedAt := s.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string and returns its subject.
// It fails with models.ErrTokenExpired once the expiry has passed and with
// models.ErrTokenMalformed for anything else that does not check out.
func (s *TokenService) Verify(tokenStr string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", models.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", models.ErrTokenMalformed, err)
	}
	if !token.Valid || strings.TrimSpace(claims.Subject) == "" {
		return "", models.ErrTokenMalformed
	}
	return claims.Subject, nil
}
