package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"rentware/internal/domain"
	"rentware/internal/domain/catalogs/product"
	"rentware/internal/infrastructure/storage/postgres"
)

const productTable = "cat_products"

// Compile-time check.
var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			productTable,
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}

// UpdateCounters persists only the counter triple for a locked product.
// No version bump: callers hold the row lock, which already serializes
// counter writes.
func (r *ProductRepo) UpdateCounters(ctx context.Context, p *product.Product) error {
	q := r.Builder().
		Update(productTable).
		Set("owned_qty", p.OwnedQty).
		Set("rented_qty", p.RentedQty).
		Set("available_qty", p.AvailableQty).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": p.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update counters: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update counters: %w", postgres.MapError(err))
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update counters: product %s not found", p.ID)
	}

	return nil
}

// ListLowStock returns active products at or below their reorder threshold.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*product.Product, error) {
	q := r.BaseSelect().
		Where(squirrel.Eq{"active": true}).
		Where(squirrel.Gt{"reorder_threshold": 0}).
		Where(squirrel.Expr("available_qty <= reorder_threshold")).
		OrderBy("available_qty ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*product.Product
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list low stock: %w", postgres.MapError(err))
	}

	return items, nil
}

// ListProducts retrieves products with product-specific filters.
func (r *ProductRepo) ListProducts(ctx context.Context, filter product.ListFilter) (domain.ListResult[*product.Product], error) {
	result := domain.ListResult[*product.Product]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.ApplyFilter(r.BaseSelect(), filter.ListFilter)

	if filter.Category != nil {
		q = q.Where(squirrel.Eq{"category": *filter.Category})
	}
	if filter.DishwareType != nil {
		q = q.Where(squirrel.Eq{"dishware_type": *filter.DishwareType})
	}
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.LowStockOnly {
		q = q.Where(squirrel.Gt{"reorder_threshold": 0}).
			Where(squirrel.Expr("available_qty <= reorder_threshold"))
	}

	countQ := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.Querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", postgres.MapError(err))
	}

	orderBy, err := r.ParseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

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
		return result, fmt.Errorf("list products: %w", postgres.MapError(err))
	}

	return result, nil
}
