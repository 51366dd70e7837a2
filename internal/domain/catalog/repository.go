package catalog

import (
	"context"

	"github.com/backoffice/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its business code
	FindByID(ctx context.Context, id string) (*Product, error)

	// FindAll finds products matching the filter, ordered and paginated
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save inserts a new product
	Save(ctx context.Context, p *Product) error

	// Update persists changes to an existing product
	Update(ctx context.Context, p *Product) error

	// Delete removes a product by ID
	Delete(ctx context.Context, id string) error

	// ExistsByID checks whether a product with the given code exists
	ExistsByID(ctx context.Context, id string) (bool, error)
}
