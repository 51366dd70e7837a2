package identity

import (
	"strings"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
)

// GroupRole is the back-office access group of a user.
type GroupRole string

const (
	GroupRoleAdmin    GroupRole = "admin"
	GroupRoleReviewer GroupRole = "reviewer"
	GroupRoleEditor   GroupRole = "editor"
)

// User is a back-office operator account (table mst_users).
// Deletion is soft: IsDeleted stays behind so audit trails keep resolving.
type User struct {
	ID           uint
	Name         string
	Email        string
	PasswordHash string
	IsActive     bool
	IsDeleted    bool
	GroupRole    GroupRole
	LastLoginAt  *time.Time
	LastLoginIP  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates an active user with the given bcrypt password hash.
func NewUser(name, email, passwordHash string, role GroupRole) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_NAME", "User name must be between 1 and 255 characters")
	}
	if email == "" || len(email) > 255 {
		return nil, shared.NewDomainError("INVALID_EMAIL", "User email must be between 1 and 255 characters")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	if err := validateGroupRole(role); err != nil {
		return nil, err
	}

	now := time.Now()
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		GroupRole:    role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Rename updates the display name.
func (u *User) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "User name must be between 1 and 255 characters")
	}
	u.Name = name
	u.UpdatedAt = time.Now()
	return nil
}

// SetGroupRole changes the access group.
func (u *User) SetGroupRole(role GroupRole) error {
	if err := validateGroupRole(role); err != nil {
		return err
	}
	u.GroupRole = role
	u.UpdatedAt = time.Now()
	return nil
}

// Lock deactivates the account so it can no longer sign in.
func (u *User) Lock() error {
	if !u.IsActive {
		return shared.NewDomainError("ALREADY_LOCKED", "User is already locked")
	}
	u.IsActive = false
	u.UpdatedAt = time.Now()
	return nil
}

// Unlock reactivates the account.
func (u *User) Unlock() error {
	if u.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	u.IsActive = true
	u.UpdatedAt = time.Now()
	return nil
}

// MarkDeleted flags the account as soft-deleted.
func (u *User) MarkDeleted() {
	u.IsDeleted = true
	u.IsActive = false
	u.UpdatedAt = time.Now()
}

// RecordLogin stamps the account with the latest successful sign-in.
func (u *User) RecordLogin(ip string, at time.Time) {
	u.LastLoginAt = &at
	u.LastLoginIP = ip
	u.UpdatedAt = at
}

// CanSignIn reports whether the account may authenticate.
func (u *User) CanSignIn() bool {
	return u.IsActive && !u.IsDeleted
}

func validateGroupRole(role GroupRole) error {
	switch role {
	case GroupRoleAdmin, GroupRoleReviewer, GroupRoleEditor:
		return nil
	default:
		return shared.NewDomainError("INVALID_ROLE", "Group role must be 'admin', 'reviewer' or 'editor'")
	}
}
