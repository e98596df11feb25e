package event

import (
	"context"
	"time"

	"rentware/internal/core/id"
	"rentware/internal/domain"
)

// Repository defines the interface for Event persistence.
type Repository interface {
	domain.CatalogRepository[*Event]

	// ListUpcoming returns events with event_date in [from, to],
	// ordered by date ascending.
	ListUpcoming(ctx context.Context, from, to time.Time) ([]*Event, error)

	// ListByCustomer returns events for a customer, newest first.
	ListByCustomer(ctx context.Context, customerID id.ID) ([]*Event, error)
}
