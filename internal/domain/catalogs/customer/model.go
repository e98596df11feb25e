// Package customer provides the Customer catalog.
package customer

import (
	"context"
	"regexp"

	"rentware/internal/core/apperror"
	"rentware/internal/core/entity"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Customer represents a rental customer (person or company).
type Customer struct {
	entity.Catalog

	LastName    *string `db:"last_name" json:"lastName,omitempty"`
	CompanyName *string `db:"company_name" json:"companyName,omitempty"`
	Email       *string `db:"email" json:"email,omitempty"`
	Phone       *string `db:"phone" json:"phone,omitempty"`
	Address     *string `db:"address" json:"address,omitempty"`
	Notes       *string `db:"notes" json:"notes,omitempty"`
}

// NewCustomer creates a new Customer.
func NewCustomer(code, name string) *Customer {
	return &Customer{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable.
func (c *Customer) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.Email != nil && *c.Email != "" && !emailRe.MatchString(*c.Email) {
		return apperror.NewValidation("invalid email").
			WithDetail("field", "email").
			WithDetail("value", *c.Email)
	}

	return nil
}
