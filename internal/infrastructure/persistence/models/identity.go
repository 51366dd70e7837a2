package models

import (
	"time"

	"github.com/backoffice/backend/internal/domain/identity"
)

// UserModel is the persistence model for back office users.
type UserModel struct {
	ID           uint       `gorm:"primaryKey;autoIncrement"`
	Name         string     `gorm:"type:varchar(255);not null"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_user_email"`
	PasswordHash string     `gorm:"column:password;type:varchar(255);not null"`
	GroupRole    string     `gorm:"column:group_role;type:varchar(20);not null;default:'editor'"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	IsDeleted    bool       `gorm:"column:is_delete;not null;default:false"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	LastLoginIP  string     `gorm:"column:last_login_ip;type:varchar(45)"`
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "mst_users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		GroupRole:    identity.GroupRole(m.GroupRole),
		IsActive:     m.IsActive,
		IsDeleted:    m.IsDeleted,
		LastLoginAt:  m.LastLoginAt,
		LastLoginIP:  m.LastLoginIP,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.ID = u.ID
	m.Name = u.Name
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.GroupRole = string(u.GroupRole)
	m.IsActive = u.IsActive
	m.IsDeleted = u.IsDeleted
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
	m.CreatedAt = u.CreatedAt
	m.UpdatedAt = u.UpdatedAt
}
