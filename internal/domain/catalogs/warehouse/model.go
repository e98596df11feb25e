// Package warehouse provides the Warehouse catalog.
// Warehouses are physical storage locations for tableware stock.
package warehouse

import (
	"context"

	"rentware/internal/core/entity"
)

// Warehouse represents a storage location.
type Warehouse struct {
	entity.Catalog

	// Location is the physical address
	Location *string `db:"location" json:"location,omitempty"`

	// Description
	Description *string `db:"description" json:"description,omitempty"`
}

// NewWarehouse creates a new Warehouse with required fields.
func NewWarehouse(code, name string) *Warehouse {
	return &Warehouse{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (w *Warehouse) Validate(ctx context.Context) error {
	return w.Catalog.Validate(ctx)
}
