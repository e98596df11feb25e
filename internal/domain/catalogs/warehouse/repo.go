package warehouse

import (
	"context"

	"rentware/internal/core/id"
	"rentware/internal/domain"
)

// Repository defines the interface for Warehouse persistence.
type Repository interface {
	domain.CatalogRepository[*Warehouse]

	// Count returns the number of warehouses in the system.
	Count(ctx context.Context) (int64, error)

	// SingleIDIfAny returns the warehouse ID when exactly one warehouse
	// exists, nil otherwise. Used by the stock engine's default-warehouse rule.
	SingleIDIfAny(ctx context.Context) (*id.ID, error)

	// CountProducts returns the number of products homed in each warehouse.
	CountProducts(ctx context.Context) (map[id.ID]int64, error)

	// HasProducts reports whether any product references the warehouse.
	HasProducts(ctx context.Context, warehouseID id.ID) (bool, error)
}
