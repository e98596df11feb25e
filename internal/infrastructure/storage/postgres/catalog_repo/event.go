package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"rentware/internal/core/id"
	"rentware/internal/domain/catalogs/event"
	"rentware/internal/infrastructure/storage/postgres"
)

const eventTable = "cat_events"

var _ event.Repository = (*EventRepo)(nil)

// EventRepo implements event.Repository.
type EventRepo struct {
	*BaseCatalogRepo[*event.Event]
}

// NewEventRepo creates a new event repository.
func NewEventRepo(txm *postgres.TxManager) *EventRepo {
	return &EventRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			eventTable,
			postgres.ExtractDBColumns[event.Event](),
			func() *event.Event { return &event.Event{} },
		),
	}
}

// ListUpcoming returns events with event_date in [from, to], soonest first.
func (r *EventRepo) ListUpcoming(ctx context.Context, from, to time.Time) ([]*event.Event, error) {
	q := r.BaseSelect().
		Where(squirrel.GtOrEq{"event_date": from}).
		Where(squirrel.LtOrEq{"event_date": to}).
		Where(squirrel.NotEq{"status": event.StatusCancelled}).
		OrderBy("event_date ASC", "event_time ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*event.Event
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list upcoming: %w", postgres.MapError(err))
	}

	return items, nil
}

// ListByCustomer returns events for a customer, newest first.
func (r *EventRepo) ListByCustomer(ctx context.Context, customerID id.ID) ([]*event.Event, error) {
	q := r.BaseSelect().
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("event_date DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*event.Event
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list by customer: %w", postgres.MapError(err))
	}

	return items, nil
}
