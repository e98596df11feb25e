// Package stock_repo provides the PostgreSQL movement ledger.
package stock_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"rentware/internal/core/apperror"
	"rentware/internal/core/id"
	"rentware/internal/domain/stock"
	"rentware/internal/infrastructure/storage/postgres"
)

const movementTable = "stock_movements"

var _ stock.Ledger = (*LedgerRepo)(nil)

// LedgerRepo is the append-only movement store. There is no update or
// delete path; corrections are new compensating movements.
type LedgerRepo struct {
	txm        *postgres.TxManager
	selectCols []string
}

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo(txm *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txm:        txm,
		selectCols: postgres.ExtractDBColumns[stock.Movement](),
	}
}

func (r *LedgerRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Record appends a movement.
func (r *LedgerRepo) Record(ctx context.Context, m *stock.Movement) error {
	data := postgres.StructToMap(m)

	q := r.builder().
		Insert(movementTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", postgres.MapError(err))
	}

	return nil
}

// GetByID retrieves a single movement.
func (r *LedgerRepo) GetByID(ctx context.Context, movementID id.ID) (*stock.Movement, error) {
	q := r.builder().
		Select(r.selectCols...).
		From(movementTable).
		Where(squirrel.Eq{"id": movementID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var m stock.Movement
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("movement", movementID.String())
		}
		return nil, fmt.Errorf("get movement: %w", postgres.MapError(err))
	}

	return &m, nil
}

// List returns movements matching the filter, newest first.
func (r *LedgerRepo) List(ctx context.Context, filter stock.Filter) ([]stock.Movement, error) {
	q := r.builder().
		Select(r.selectCols...).
		From(movementTable).
		OrderBy("occurred_at DESC", "created_at DESC")

	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"occurred_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"occurred_at": *filter.To})
	}
	if filter.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *filter.Kind})
	}
	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"origin_warehouse_id": *filter.WarehouseID},
			squirrel.Eq{"dest_warehouse_id": *filter.WarehouseID},
		})
	}

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []stock.Movement
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", postgres.MapError(err))
	}

	return items, nil
}
