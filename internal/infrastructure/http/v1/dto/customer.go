package dto

import (
	"rentware/internal/domain/catalogs/customer"
)

// CreateCustomerRequest is the request body for creating a customer.
type CreateCustomerRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required"`
	LastName    *string `json:"lastName"`
	CompanyName *string `json:"companyName"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Notes       *string `json:"notes"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateCustomerRequest) ToEntity() *customer.Customer {
	c := customer.NewCustomer(r.Code, r.Name)
	c.LastName = r.LastName
	c.CompanyName = r.CompanyName
	c.Email = r.Email
	c.Phone = r.Phone
	c.Address = r.Address
	c.Notes = r.Notes
	return c
}

// UpdateCustomerRequest is the request body for updating a customer.
type UpdateCustomerRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required"`
	LastName    *string `json:"lastName"`
	CompanyName *string `json:"companyName"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Notes       *string `json:"notes"`
	Version     int     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update onto an existing entity.
func (r *UpdateCustomerRequest) ApplyTo(c *customer.Customer) {
	c.Code = r.Code
	c.Name = r.Name
	c.LastName = r.LastName
	c.CompanyName = r.CompanyName
	c.Email = r.Email
	c.Phone = r.Phone
	c.Address = r.Address
	c.Notes = r.Notes
	c.Version = r.Version
}
