package models

import (
	"time"

	"github.com/backoffice/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for catalog products.
type ProductModel struct {
	ProductID   string          `gorm:"column:product_id;type:varchar(20);primaryKey"`
	Name        string          `gorm:"column:product_name;type:varchar(255);not null"`
	Image       string          `gorm:"type:varchar(255)"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	IsSales     int             `gorm:"column:is_sales;not null;default:1"`
	Description string          `gorm:"type:text"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "mst_products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		ID:          m.ProductID,
		Name:        m.Name,
		Image:       m.Image,
		Price:       m.Price,
		SaleStatus:  catalog.SaleStatus(m.IsSales),
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.ProductID = p.ID
	m.Name = p.Name
	m.Image = p.Image
	m.Price = p.Price
	m.IsSales = int(p.SaleStatus)
	m.Description = p.Description
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}
