package customer

import (
	"context"

	"github.com/backoffice/backend/internal/domain/shared"
)

// EmailSet is a snapshot of the lower-cased emails currently persisted.
// The row validator checks candidate emails against it without touching
// the database.
type EmailSet map[string]struct{}

// Contains reports whether email is in the set.
func (s EmailSet) Contains(email string) bool {
	_, ok := s[email]
	return ok
}

// Add inserts email into the set.
func (s EmailSet) Add(email string) {
	s[email] = struct{}{}
}

// Repository defines the interface for customer persistence
type Repository interface {
	// FindByID finds a customer by its numeric ID
	FindByID(ctx context.Context, id uint) (*Customer, error)

	// FindAll finds customers matching the filter, ordered and paginated
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// Count counts customers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save inserts a new customer
	Save(ctx context.Context, c *Customer) error

	// Update persists changes to an existing customer
	Update(ctx context.Context, c *Customer) error

	// Delete removes a customer by ID
	Delete(ctx context.Context, id uint) error

	// ExistsByEmail checks whether a customer with the given email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Emails returns a snapshot of all persisted customer emails
	Emails(ctx context.Context) (EmailSet, error)

	// InsertBatch inserts every customer inside a single transaction.
	// Any failure rolls the whole batch back; no partial writes are
	// ever visible.
	InsertBatch(ctx context.Context, customers []*Customer) error
}
