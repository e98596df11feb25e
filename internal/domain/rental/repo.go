package rental

import (
	"context"
	"time"

	"rentware/internal/core/id"
	"rentware/internal/domain"
)

// ListFilter narrows order listings.
type ListFilter struct {
	CustomerID *id.ID
	EventID    *id.ID
	State      *State

	// PeriodFrom/PeriodTo match orders whose rental period overlaps
	// the given range.
	PeriodFrom time.Time
	PeriodTo   time.Time

	Search string
	Limit  int
	Offset int
}

// Repository is the persistence contract for rental orders. An order and
// its line items are read and written as one aggregate.
type Repository interface {
	// Create persists the order header and its items.
	Create(ctx context.Context, o *Order) error

	// GetByID loads an order with its items in line order.
	GetByID(ctx context.Context, orderID id.ID) (*Order, error)

	// GetByCode loads an order by its unique code.
	GetByCode(ctx context.Context, code string) (*Order, error)

	// Update persists the order header with an optimistic version check.
	Update(ctx context.Context, o *Order) error

	// ReplaceItems atomically swaps the full item set of an order.
	ReplaceItems(ctx context.Context, orderID id.ID, items []LineItem) error

	// Delete removes the order and its items.
	Delete(ctx context.Context, orderID id.ID) error

	ExistsByCode(ctx context.Context, code string) (bool, error)

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Order], error)
}
