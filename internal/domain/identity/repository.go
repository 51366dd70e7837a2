package identity

import (
	"context"

	"github.com/backoffice/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence.
// Soft-deleted users are excluded from every lookup.
type UserRepository interface {
	// FindByID finds a user by its numeric ID
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll finds users matching the filter, ordered and paginated
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// Count counts users matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save inserts a new user
	Save(ctx context.Context, u *User) error

	// Update persists changes to an existing user
	Update(ctx context.Context, u *User) error

	// ExistsByEmail checks whether a user with the given email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
