// Package identity contains the application services for back office
// users: authentication and user administration.
package identity

import (
	"context"
	"errors"
	"time"

	domain "github.com/backoffice/backend/internal/domain/identity"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// ErrBadCredentials is returned for unknown emails, wrong passwords
// and locked or deleted accounts alike, so a caller cannot probe which
// emails exist.
var ErrBadCredentials = errors.New("invalid email or password")

// AuthService handles login, logout and session introspection.
type AuthService struct {
	users     domain.UserRepository
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(users domain.UserRepository, jwt *auth.JWTService, blacklist auth.TokenBlacklist, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, jwt: jwt, blacklist: blacklist, logger: logger}
}

// LoginInput carries the login credentials.
type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	ClientIP string `json:"-"`
}

// Session is an authenticated session: the user plus their token.
type Session struct {
	User  *domain.User
	Token *auth.Token
}

// Login verifies credentials and issues a session token. The last
// login timestamp and IP are recorded on success.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}

	if !user.CanSignIn() {
		return nil, ErrBadCredentials
	}
	if err := auth.VerifyPassword(user.PasswordHash, input.Password); err != nil {
		s.logger.Warn("failed login attempt", zap.String("email", user.Email))
		return nil, ErrBadCredentials
	}

	token, err := s.jwt.Generate(user.ID, user.Email, string(user.GroupRole))
	if err != nil {
		return nil, err
	}

	user.RecordLogin(input.ClientIP, time.Now())
	if err := s.users.Update(ctx, user); err != nil {
		// Login still succeeds; the stamp is best effort.
		s.logger.Warn("failed to record login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	s.logger.Info("user logged in", zap.Uint("user_id", user.ID))
	return &Session{User: user, Token: token}, nil
}

// Logout revokes the session token by blacklisting its JTI until the
// token would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return s.blacklist.Add(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}

// CurrentUser resolves the user behind a verified token.
func (s *AuthService) CurrentUser(ctx context.Context, claims *auth.Claims) (*domain.User, error) {
	return s.users.FindByID(ctx, claims.UserID)
}

// VerifyToken validates a raw token and checks it against the
// revocation blacklist.
func (s *AuthService) VerifyToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	claims, err := s.jwt.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	revoked, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, auth.ErrTokenBlacklisted
	}
	return claims, nil
}
