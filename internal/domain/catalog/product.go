package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleStatus describes whether a product can currently be sold.
type SaleStatus int

const (
	SaleStatusOutOfStock   SaleStatus = 0
	SaleStatusAvailable    SaleStatus = 1
	SaleStatusDiscontinued SaleStatus = 2
)

// Product is a catalog entry (table mst_products). The product ID is a
// business-assigned code, not a generated number.
type Product struct {
	ID          string
	Name        string
	Image       string
	Price       decimal.Decimal
	SaleStatus  SaleStatus
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct creates a product that is available for sale.
func NewProduct(id, name string, price decimal.Decimal) (*Product, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)

	if err := validateProductID(id); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}

	now := time.Now()
	return &Product{
		ID:         id,
		Name:       name,
		Price:      price,
		SaleStatus: SaleStatusAvailable,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Update replaces the product's mutable fields.
func (p *Product) Update(name string, price decimal.Decimal, description string) error {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return err
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}

	p.Name = name
	p.Price = price
	p.Description = description
	p.UpdatedAt = time.Now()
	return nil
}

// SetImage records the storage key of the product image.
func (p *Product) SetImage(key string) error {
	if len(key) > 255 {
		return shared.NewDomainError("INVALID_IMAGE", "Image reference cannot exceed 255 characters")
	}
	p.Image = key
	p.UpdatedAt = time.Now()
	return nil
}

// SetSaleStatus changes the sale status.
func (p *Product) SetSaleStatus(status SaleStatus) error {
	switch status {
	case SaleStatusOutOfStock, SaleStatusAvailable, SaleStatusDiscontinued:
		p.SaleStatus = status
		p.UpdatedAt = time.Now()
		return nil
	default:
		return shared.NewDomainError("INVALID_SALE_STATUS", "Sale status must be 0, 1 or 2")
	}
}

func validateProductID(id string) error {
	if id == "" {
		return shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID cannot be empty")
	}
	if len(id) > 20 {
		return shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID cannot exceed 20 characters")
	}
	for _, r := range id {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateProductName(name string) error {
	n := utf8.RuneCountInString(name)
	if n == 0 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if n > 255 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 255 characters")
	}
	return nil
}
