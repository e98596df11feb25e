package product

import (
	"context"

	"rentware/internal/core/id"
	"rentware/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// GetForUpdate retrieves the product with an exclusive row lock.
	// Must be called inside a transaction; the lock is held until the
	// enclosing transaction ends. This is the per-product lock that
	// serializes the engine's check-mutate-log sequence.
	GetForUpdate(ctx context.Context, id id.ID) (*Product, error)

	// UpdateCounters persists only the counter triple for a locked product.
	UpdateCounters(ctx context.Context, p *Product) error

	// ListLowStock returns active products with available <= reorder threshold,
	// ordered by available ascending.
	ListLowStock(ctx context.Context) ([]*Product, error)

	// ListProducts retrieves products with product-specific filters.
	ListProducts(ctx context.Context, filter ListFilter) (domain.ListResult[*Product], error)
}

// ListFilter extends the common catalog filter with product-specific criteria.
type ListFilter struct {
	domain.ListFilter

	Category     *string
	DishwareType *string
	WarehouseID  *id.ID
	LowStockOnly bool
}
