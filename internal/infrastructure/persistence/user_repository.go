package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/backoffice/backend/internal/domain/identity"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM.
// Soft-deleted users are filtered out of every query.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) live(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.UserModel{}).Where("is_delete = ?", false)
}

// FindByID finds a user by its numeric ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*identity.User, error) {
	var model models.UserModel
	if err := r.live(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	err := r.live(ctx).Where("email = ?", strings.ToLower(email)).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all users matching the filter
func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	var userModels []models.UserModel
	query := r.applyFilter(r.live(ctx), filter)

	query = query.Order(orderClause(filter, map[string]string{
		"id": "id", "name": "name", "email": "email",
		"created_at": "created_at", "last_login_at": "last_login_at",
	}))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if err := query.Find(&userModels).Error; err != nil {
		return nil, err
	}

	users := make([]identity.User, len(userModels))
	for i, model := range userModels {
		users[i] = *model.ToDomain()
	}
	return users, nil
}

// Count counts users matching the filter
func (r *GormUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.live(ctx), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save inserts a new user
func (r *GormUserRepository) Save(ctx context.Context, u *identity.User) error {
	var model models.UserModel
	model.FromDomain(u)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	u.ID = model.ID
	return nil
}

// Update persists changes to an existing user
func (r *GormUserRepository) Update(ctx context.Context, u *identity.User) error {
	var model models.UserModel
	model.FromDomain(u)
	result := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"name":          model.Name,
			"email":         model.Email,
			"password":      model.PasswordHash,
			"group_role":    model.GroupRole,
			"is_active":     model.IsActive,
			"is_delete":     model.IsDeleted,
			"last_login_at": model.LastLoginAt,
			"last_login_ip": model.LastLoginIP,
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

// ExistsByEmail checks whether a live user with the given email exists
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.live(ctx).Where("email = ?", strings.ToLower(email)).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormUserRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "name":
			query = query.Where("name LIKE ?", "%"+fmt.Sprint(value)+"%")
		case "email":
			query = query.Where("email LIKE ?", "%"+strings.ToLower(fmt.Sprint(value))+"%")
		case "group_role":
			query = query.Where("group_role = ?", fmt.Sprint(value))
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}
	return query
}
