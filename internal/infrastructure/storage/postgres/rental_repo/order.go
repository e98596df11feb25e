// Package rental_repo provides PostgreSQL persistence for rental orders.
package rental_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"rentware/internal/core/apperror"
	"rentware/internal/core/id"
	"rentware/internal/domain"
	"rentware/internal/domain/rental"
	"rentware/internal/infrastructure/storage/postgres"
)

const (
	orderTable = "rental_orders"
	itemTable  = "rental_order_items"
)

var _ rental.Repository = (*OrderRepo)(nil)

// OrderRepo implements rental.Repository. An order and its line items
// are read and written as one aggregate.
type OrderRepo struct {
	txm       *postgres.TxManager
	orderCols []string
	itemCols  []string
}

// NewOrderRepo creates a new rental order repository.
func NewOrderRepo(txm *postgres.TxManager) *OrderRepo {
	return &OrderRepo{
		txm:       txm,
		orderCols: postgres.ExtractDBColumns[rental.Order](),
		itemCols:  postgres.ExtractDBColumns[rental.LineItem](),
	}
}

func (r *OrderRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create persists the order header and its items.
func (r *OrderRepo) Create(ctx context.Context, o *rental.Order) error {
	data := postgres.StructToMap(o)

	q := r.builder().
		Insert(orderTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert order: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("order", "code", o.Code).WithCause(err)
		}
		return fmt.Errorf("insert order: %w", postgres.MapError(err))
	}

	return r.insertItems(ctx, o.Items)
}

// GetByID loads an order with its items in line order.
func (r *OrderRepo) GetByID(ctx context.Context, orderID id.ID) (*rental.Order, error) {
	return r.getOne(ctx, squirrel.Eq{"id": orderID}, orderID.String())
}

// GetByCode loads an order by its unique code.
func (r *OrderRepo) GetByCode(ctx context.Context, code string) (*rental.Order, error) {
	return r.getOne(ctx, squirrel.Eq{"code": code}, code)
}

func (r *OrderRepo) getOne(ctx context.Context, cond squirrel.Eq, key string) (*rental.Order, error) {
	q := r.builder().
		Select(r.orderCols...).
		From(orderTable).
		Where(cond).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var o rental.Order
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &o, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("order", key)
		}
		return nil, fmt.Errorf("get order: %w", postgres.MapError(err))
	}

	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

// Update persists the order header with an optimistic version check.
func (r *OrderRepo) Update(ctx context.Context, o *rental.Order) error {
	data := postgres.StructToMap(o)

	filtered := make(map[string]any, len(data))
	for k, v := range data {
		if k == "id" || k == "version" || k == "created_at" {
			continue
		}
		filtered[k] = v
	}

	q := r.builder().
		Update(orderTable).
		SetMap(filtered).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": o.ID}).
		Where(squirrel.Eq{"version": o.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update order: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update order: %w", postgres.MapError(err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("order", o.ID.String())
	}

	o.SetVersion(o.Version + 1)
	return nil
}

// ReplaceItems atomically swaps the full item set of an order.
func (r *OrderRepo) ReplaceItems(ctx context.Context, orderID id.ID, items []rental.LineItem) error {
	delQ := r.builder().
		Delete(itemTable).
		Where(squirrel.Eq{"order_id": orderID})

	sql, args, err := delQ.ToSql()
	if err != nil {
		return fmt.Errorf("build delete items: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete items: %w", postgres.MapError(err))
	}

	return r.insertItems(ctx, items)
}

// Delete removes the order and its items.
func (r *OrderRepo) Delete(ctx context.Context, orderID id.ID) error {
	delItems := r.builder().
		Delete(itemTable).
		Where(squirrel.Eq{"order_id": orderID})

	sql, args, err := delItems.ToSql()
	if err != nil {
		return fmt.Errorf("build delete items: %w", err)
	}
	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete items: %w", postgres.MapError(err))
	}

	delOrder := r.builder().
		Delete(orderTable).
		Where(squirrel.Eq{"id": orderID})

	sql, args, err = delOrder.ToSql()
	if err != nil {
		return fmt.Errorf("build delete order: %w", err)
	}
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete order: %w", postgres.MapError(err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("order", orderID.String())
	}

	return nil
}

// ExistsByCode checks order code uniqueness.
func (r *OrderRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	q := r.builder().
		Select("1").
		From(orderTable).
		Where(squirrel.Eq{"code": code}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists by code: %w", postgres.MapError(err))
	}

	return true, nil
}

// List returns orders matching the filter, newest first. Items are not
// loaded; use GetByID for the full aggregate.
func (r *OrderRepo) List(ctx context.Context, filter rental.ListFilter) (domain.ListResult[*rental.Order], error) {
	result := domain.ListResult[*rental.Order]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder().
		Select(r.orderCols...).
		From(orderTable)

	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.EventID != nil {
		q = q.Where(squirrel.Eq{"event_id": *filter.EventID})
	}
	if filter.State != nil {
		q = q.Where(squirrel.Eq{"state": *filter.State})
	}
	if !filter.PeriodFrom.IsZero() {
		q = q.Where(squirrel.GtOrEq{"period_end": filter.PeriodFrom})
	}
	if !filter.PeriodTo.IsZero() {
		q = q.Where(squirrel.LtOrEq{"period_start": filter.PeriodTo})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"code": "%" + filter.Search + "%"})
	}

	countQ := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count orders: %w", postgres.MapError(err))
	}

	q = q.OrderBy("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list orders: %w", postgres.MapError(err))
	}

	return result, nil
}

func (r *OrderRepo) insertItems(ctx context.Context, items []rental.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	q := r.builder().
		Insert(itemTable).
		Columns(r.itemCols...)

	for i := range items {
		data := postgres.StructToMap(&items[i])
		row := make([]any, len(r.itemCols))
		for j, col := range r.itemCols {
			row[j] = data[col]
		}
		q = q.Values(row...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", postgres.MapError(err))
	}

	return nil
}

func (r *OrderRepo) loadItems(ctx context.Context, orderID id.ID) ([]rental.LineItem, error) {
	q := r.builder().
		Select(r.itemCols...).
		From(itemTable).
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy("line_no ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []rental.LineItem
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("load items: %w", postgres.MapError(err))
	}

	return items, nil
}
