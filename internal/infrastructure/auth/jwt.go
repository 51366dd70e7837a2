package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/backoffice/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenBlacklisted = errors.New("token has been revoked")
)

// Claims represents the JWT claims carried by back office sessions.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	GroupRole string `json:"group_role"`
}

// Token is an issued session token with its expiry.
type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// JWTService issues and verifies session tokens.
type JWTService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewJWTService creates a new JWT service from configuration.
func NewJWTService(cfg config.JWTConfig) *JWTService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
	}
}

// Generate issues a signed token for the given user.
func (s *JWTService) Generate(userID uint, email, groupRole string) (*Token, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   fmt.Sprintf("%d", userID),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:    userID,
		Email:     email,
		GroupRole: groupRole,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// Verify parses and validates a token string, returning its claims.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}
