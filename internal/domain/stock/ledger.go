package stock

import (
	"context"
	"time"

	"rentware/internal/core/id"
)

// Ledger is the append-only movement store. The interface deliberately
// has no update or delete: corrections are new compensating movements.
type Ledger interface {
	// Record appends a movement. Fails only on storage faults.
	Record(ctx context.Context, m *Movement) error

	// GetByID retrieves a single movement.
	GetByID(ctx context.Context, movementID id.ID) (*Movement, error)

	// List returns movements matching the filter, newest first.
	List(ctx context.Context, filter Filter) ([]Movement, error)
}

// Filter narrows ledger queries.
type Filter struct {
	From      *time.Time
	To        *time.Time
	Kind      *Kind
	ProductID *id.ID

	// WarehouseID matches either origin or destination.
	WarehouseID *id.ID

	Limit  int
	Offset int
}
