// Package catalog contains the application service for the product
// catalog.
package catalog

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/backoffice/backend/internal/domain/catalog"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service coordinates product use cases.
type Service struct {
	repo   domain.ProductRepository
	store  storage.ArtifactStorage
	logger *zap.Logger
}

// NewService creates a catalog Service. store holds product images.
func NewService(repo domain.ProductRepository, store storage.ArtifactStorage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, store: store, logger: logger}
}

// CreateInput carries the fields for creating a product.
type CreateInput struct {
	ID          string `json:"product_id" binding:"required"`
	Name        string `json:"product_name" binding:"required"`
	Price       string `json:"price" binding:"required"`
	SaleStatus  int    `json:"is_sales"`
	Description string `json:"description"`
}

// UpdateInput carries the fields for updating a product.
type UpdateInput struct {
	Name        string `json:"product_name" binding:"required"`
	Price       string `json:"price" binding:"required"`
	SaleStatus  int    `json:"is_sales"`
	Description string `json:"description"`
}

// Create validates and persists a new product.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Product, error) {
	price, err := decimal.NewFromString(input.Price)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "price must be a decimal number")
	}

	p, err := domain.NewProduct(input.ID, input.Name, price)
	if err != nil {
		return nil, err
	}
	if err := p.SetSaleStatus(domain.SaleStatus(input.SaleStatus)); err != nil {
		return nil, err
	}
	p.Description = input.Description

	exists, err := s.repo.ExistsByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("product created", zap.String("product_id", p.ID))
	return p, nil
}

// Get returns one product by its code.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies changes to an existing product.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*domain.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(input.Price)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "price must be a decimal number")
	}
	if err := p.Update(input.Name, price, input.Description); err != nil {
		return nil, err
	}
	if err := p.SetSaleStatus(domain.SaleStatus(input.SaleStatus)); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// UploadImage stores the image bytes and records the storage key on the
// product. Supported extensions: .png, .jpg, .jpeg, .webp.
func (s *Service) UploadImage(ctx context.Context, id string, data []byte, ext string) (string, error) {
	ext = strings.ToLower(ext)
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
	default:
		return "", shared.NewDomainError("INVALID_IMAGE", "unsupported image format")
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("products/%s%s", p.ID, ext)
	if err := s.store.Put(ctx, key, data); err != nil {
		return "", err
	}
	if err := p.SetImage(key); err != nil {
		return "", err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return "", err
	}
	s.logger.Info("product image stored", zap.String("product_id", p.ID), zap.String("key", key))
	return key, nil
}

// Image returns the stored image bytes of a product.
func (s *Service) Image(ctx context.Context, id string) ([]byte, string, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if p.Image == "" {
		return nil, "", shared.ErrNotFound
	}
	data, err := s.store.Get(ctx, p.Image)
	if err != nil {
		return nil, "", err
	}
	return data, p.Image, nil
}

// List lists products matching the criteria.
func (s *Service) List(ctx context.Context, name string, saleStatus *int, page, pageSize int) (shared.Paginated[domain.Product], error) {
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
	if saleStatus != nil {
		filter.Filters["is_sales"] = *saleStatus
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[domain.Product]{}, err
	}
	items, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[domain.Product]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}
