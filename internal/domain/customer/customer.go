package customer

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/backoffice/backend/internal/domain/shared"
)

// Field length limits shared by the CRUD surface and the bulk-import pipeline.
const (
	NameMinLen    = 5
	NameMaxLen    = 255
	AddressMaxLen = 255
	EmailMaxLen   = 255
	TelNumMinLen  = 10
	TelNumMaxLen  = 11
)

// Customer is the durable customer entity (table mst_customer).
// The import pipeline only ever inserts customers; updates and deletes
// go through the ordinary CRUD endpoints.
type Customer struct {
	ID        uint
	Name      string
	Email     string
	TelNum    string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCustomer creates a new active customer after validating every field.
func NewCustomer(name, email, telNum, address string) (*Customer, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	telNum = strings.TrimSpace(telNum)
	address = strings.TrimSpace(address)

	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidateTelNum(telNum); err != nil {
		return nil, err
	}
	if err := ValidateAddress(address); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Customer{
		Name:      name,
		Email:     email,
		TelNum:    telNum,
		Address:   address,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update replaces the customer's mutable fields after validation.
func (c *Customer) Update(name, email, telNum, address string) error {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	telNum = strings.TrimSpace(telNum)
	address = strings.TrimSpace(address)

	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidateTelNum(telNum); err != nil {
		return err
	}
	if err := ValidateAddress(address); err != nil {
		return err
	}

	c.Name = name
	c.Email = email
	c.TelNum = telNum
	c.Address = address
	c.UpdatedAt = time.Now()
	return nil
}

// Activate marks the customer as active.
func (c *Customer) Activate() {
	c.IsActive = true
	c.UpdatedAt = time.Now()
}

// Deactivate marks the customer as inactive.
func (c *Customer) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
}

// ValidateName checks the customer name rule: required, 5-255 characters.
func ValidateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n == 0 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if n < NameMinLen || n > NameMaxLen {
		return shared.NewDomainError("INVALID_NAME", "Customer name must be between 5 and 255 characters")
	}
	return nil
}

// ValidateEmail checks the email rule: required, RFC-plausible address syntax.
func ValidateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if utf8.RuneCountInString(email) > EmailMaxLen {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 255 characters")
	}
	if !IsPlausibleEmail(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

// ValidateTelNum checks the phone rule: exactly 10 or 11 ASCII digits.
func ValidateTelNum(telNum string) error {
	if telNum == "" {
		return shared.NewDomainError("INVALID_TEL_NUM", "Phone number cannot be empty")
	}
	if !IsTelNum(telNum) {
		return shared.NewDomainError("INVALID_TEL_NUM", "Phone number must be 10-11 digits")
	}
	return nil
}

// ValidateAddress checks the address rule: required, at most 255 characters.
func ValidateAddress(address string) error {
	if address == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot be empty")
	}
	if utf8.RuneCountInString(address) > AddressMaxLen {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 255 characters")
	}
	return nil
}

// IsPlausibleEmail reports whether s parses as a bare RFC 5322 address.
// Display names ("Name <a@b>") are rejected; the import file carries
// plain addresses only.
func IsPlausibleEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s
}

// IsTelNum reports whether s consists of exactly 10 or 11 ASCII digits.
func IsTelNum(s string) bool {
	if len(s) < TelNumMinLen || len(s) > TelNumMaxLen {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
