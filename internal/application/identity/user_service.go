package identity

import (
	"context"

	domain "github.com/backoffice/backend/internal/domain/identity"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// UserService handles user administration: listing, creation, role
// changes, locking and soft deletion.
type UserService struct {
	users  domain.UserRepository
	logger *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(users domain.UserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, logger: logger}
}

// CreateUserInput carries the fields for creating a user.
type CreateUserInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"group_role" binding:"required"`
}

// Create hashes the password and persists a new user.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, shared.NewDomainError("WEAK_PASSWORD", err.Error())
	}

	user, err := domain.NewUser(input.Name, input.Email, hash, domain.GroupRole(input.Role))
	if err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user created", zap.Uint("user_id", user.ID), zap.String("role", string(user.GroupRole)))
	return user, nil
}

// Get returns one user by ID.
func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// List lists users matching the criteria.
func (s *UserService) List(ctx context.Context, name, role string, page, pageSize int) (shared.Paginated[domain.User], error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	if name != "" {
		filter.Filters["name"] = name
	}
	if role != "" {
		filter.Filters["group_role"] = role
	}

	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[domain.User]{}, err
	}
	items, err := s.users.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[domain.User]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// SetRole changes a user's group role.
func (s *UserService) SetRole(ctx context.Context, id uint, role string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.SetGroupRole(domain.GroupRole(role)); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Lock disables a user's ability to sign in.
func (s *UserService) Lock(ctx context.Context, id uint) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.Lock(); err != nil {
		return err
	}
	return s.users.Update(ctx, user)
}

// Unlock re-enables a locked user.
func (s *UserService) Unlock(ctx context.Context, id uint) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.Unlock(); err != nil {
		return err
	}
	return s.users.Update(ctx, user)
}

// Delete soft-deletes a user. The row stays for auditing but the user
// disappears from lookups and can no longer sign in.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.MarkDeleted()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Uint("user_id", id))
	return nil
}
