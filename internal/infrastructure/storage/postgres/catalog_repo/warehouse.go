package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"rentware/internal/core/id"
	"rentware/internal/domain/catalogs/warehouse"
	"rentware/internal/infrastructure/storage/postgres"
)

const warehouseTable = "cat_warehouses"

var _ warehouse.Repository = (*WarehouseRepo)(nil)

// WarehouseRepo implements warehouse.Repository.
type WarehouseRepo struct {
	*BaseCatalogRepo[*warehouse.Warehouse]
}

// NewWarehouseRepo creates a new warehouse repository.
func NewWarehouseRepo(txm *postgres.TxManager) *WarehouseRepo {
	return &WarehouseRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			warehouseTable,
			postgres.ExtractDBColumns[warehouse.Warehouse](),
			func() *warehouse.Warehouse { return &warehouse.Warehouse{} },
		),
	}
}

// Count returns the number of warehouses in the system.
func (r *WarehouseRepo) Count(ctx context.Context) (int64, error) {
	q := r.Builder().
		Select("COUNT(*)").
		From(warehouseTable)

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int64
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count warehouses: %w", postgres.MapError(err))
	}

	return count, nil
}

// SingleIDIfAny returns the warehouse ID when exactly one warehouse
// exists, nil otherwise.
func (r *WarehouseRepo) SingleIDIfAny(ctx context.Context) (*id.ID, error) {
	// LIMIT 2 distinguishes "one" from "several" with a single query.
	q := r.Builder().
		Select("id").
		From(warehouseTable).
		Limit(2)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.Querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query warehouses: %w", postgres.MapError(err))
	}
	defer rows.Close()

	var ids []id.ID
	for rows.Next() {
		var wid id.ID
		if err := rows.Scan(&wid); err != nil {
			return nil, fmt.Errorf("scan warehouse id: %w", err)
		}
		ids = append(ids, wid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate warehouses: %w", err)
	}

	if len(ids) != 1 {
		return nil, nil
	}
	return &ids[0], nil
}

// CountProducts returns the number of products homed in each warehouse.
func (r *WarehouseRepo) CountProducts(ctx context.Context) (map[id.ID]int64, error) {
	q := r.Builder().
		Select("warehouse_id", "COUNT(*)").
		From(productTable).
		GroupBy("warehouse_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.Querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", postgres.MapError(err))
	}
	defer rows.Close()

	counts := make(map[id.ID]int64)
	for rows.Next() {
		var (
			wid   id.ID
			count int64
		)
		if err := rows.Scan(&wid, &count); err != nil {
			return nil, fmt.Errorf("scan product count: %w", err)
		}
		counts[wid] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product counts: %w", err)
	}

	return counts, nil
}

// HasProducts reports whether any product references the warehouse.
func (r *WarehouseRepo) HasProducts(ctx context.Context, warehouseID id.ID) (bool, error) {
	q := r.Builder().
		Select("1").
		From(productTable).
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("has products: %w", postgres.MapError(err))
	}

	return true, nil
}
