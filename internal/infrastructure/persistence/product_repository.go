package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/backoffice/backend/internal/domain/catalog"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its business code
func (r *GormProductRepository) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "product_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var productModels []models.ProductModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter)

	query = query.Order(orderClause(filter, map[string]string{
		"product_id": "product_id", "product_name": "product_name",
		"price": "price", "created_at": "created_at",
	}))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if err := query.Find(&productModels).Error; err != nil {
		return nil, err
	}

	products := make([]catalog.Product, len(productModels))
	for i, model := range productModels {
		products[i] = *model.ToDomain()
	}
	return products, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save inserts a new product
func (r *GormProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	var model models.ProductModel
	model.FromDomain(p)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update persists changes to an existing product
func (r *GormProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	var model models.ProductModel
	model.FromDomain(p)
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("product_id = ?", p.ID).
		Updates(map[string]interface{}{
			"product_name": model.Name,
			"image":        model.Image,
			"price":        model.Price,
			"is_sales":     model.IsSales,
			"description":  model.Description,
			"updated_at":   model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a product by ID
func (r *GormProductRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, "product_id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByID checks whether a product with the given code exists
func (r *GormProductRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("product_id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "name":
			query = query.Where("product_name LIKE ?", "%"+fmt.Sprint(value)+"%")
		case "is_sales":
			query = query.Where("is_sales = ?", value)
		}
	}
	return query
}
