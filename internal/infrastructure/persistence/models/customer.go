package models

import (
	"time"

	"github.com/backoffice/backend/internal/domain/customer"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	CustomerID uint      `gorm:"column:customer_id;primaryKey;autoIncrement"`
	Name       string    `gorm:"column:customer_name;type:varchar(255);not null"`
	Email      string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_customer_email"`
	TelNum     string    `gorm:"column:tel_num;type:varchar(11);not null"`
	Address    string    `gorm:"type:varchar(255);not null"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "mst_customer"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *customer.Customer {
	return &customer.Customer{
		ID:        m.CustomerID,
		Name:      m.Name,
		Email:     m.Email,
		TelNum:    m.TelNum,
		Address:   m.Address,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *customer.Customer) {
	m.CustomerID = c.ID
	m.Name = c.Name
	m.Email = c.Email
	m.TelNum = c.TelNum
	m.Address = c.Address
	m.IsActive = c.IsActive
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}
