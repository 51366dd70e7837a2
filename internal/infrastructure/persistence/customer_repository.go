package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/backoffice/backend/internal/domain/customer"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerRepository implements customer.Repository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its numeric ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uint) (*customer.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "customer_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]customer.Customer, error) {
	var customerModels []models.CustomerModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter)

	query = query.Order(orderClause(filter, map[string]string{
		"customer_id": "customer_id", "customer_name": "customer_name",
		"email": "email", "created_at": "created_at", "updated_at": "updated_at",
	}))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if err := query.Find(&customerModels).Error; err != nil {
		return nil, err
	}

	customers := make([]customer.Customer, len(customerModels))
	for i, model := range customerModels {
		customers[i] = *model.ToDomain()
	}
	return customers, nil
}

// Count counts customers matching the filter
func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save inserts a new customer
func (r *GormCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	var model models.CustomerModel
	model.FromDomain(c)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	c.ID = model.CustomerID
	return nil
}

// Update persists changes to an existing customer
func (r *GormCustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	var model models.CustomerModel
	model.FromDomain(c)
	result := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Where("customer_id = ?", c.ID).
		Updates(map[string]interface{}{
			"customer_name": model.Name,
			"email":         model.Email,
			"tel_num":       model.TelNum,
			"address":       model.Address,
			"is_active":     model.IsActive,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return shared.ErrAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a customer by ID
func (r *GormCustomerRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.CustomerModel{}, "customer_id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByEmail checks whether a customer with the given email exists
func (r *GormCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Where("email = ?", strings.ToLower(email)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Emails returns a snapshot of all persisted customer emails.
func (r *GormCustomerRepository) Emails(ctx context.Context) (customer.EmailSet, error) {
	var emails []string
	err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Pluck("email", &emails).Error
	if err != nil {
		return nil, err
	}
	set := make(customer.EmailSet, len(emails))
	for _, e := range emails {
		set.Add(strings.ToLower(e))
	}
	return set, nil
}

// InsertBatch inserts every customer inside a single transaction. Any
// insert failure rolls the whole batch back.
func (r *GormCustomerRepository) InsertBatch(ctx context.Context, customers []*customer.Customer) error {
	if len(customers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range customers {
			var model models.CustomerModel
			model.FromDomain(c)
			if err := tx.Create(&model).Error; err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("%w: %s", shared.ErrAlreadyExists, c.Email)
				}
				return err
			}
			c.ID = model.CustomerID
		}
		return nil
	})
}

func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "name":
			query = query.Where("customer_name LIKE ?", "%"+fmt.Sprint(value)+"%")
		case "email":
			query = query.Where("email LIKE ?", "%"+strings.ToLower(fmt.Sprint(value))+"%")
		case "address":
			query = query.Where("address LIKE ?", "%"+fmt.Sprint(value)+"%")
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}
	return query
}
