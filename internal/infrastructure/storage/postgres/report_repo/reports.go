// Package report_repo provides PostgreSQL implementations for report queries.
package report_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"rentware/internal/domain/reports"
	"rentware/internal/infrastructure/storage/postgres"
)

var _ reports.Repository = (*ReportRepo)(nil)

// ReportRepo implements reports.Repository with read-only aggregate queries.
type ReportRepo struct {
	txm *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txm: txm}
}

// GetDashboardSummary collects the headline numbers in one round trip
// per subject area.
func (r *ReportRepo) GetDashboardSummary(ctx context.Context) (*reports.DashboardSummary, error) {
	q := r.txm.GetQuerier(ctx)

	var s reports.DashboardSummary

	productQuery := `
		SELECT COUNT(*),
			   COALESCE(SUM(owned_qty), 0),
			   COALESCE(SUM(rented_qty), 0),
			   COALESCE(SUM(available_qty), 0),
			   COUNT(*) FILTER (WHERE reorder_threshold > 0 AND available_qty <= reorder_threshold),
			   COUNT(*) FILTER (WHERE condition = 'damaged')
		FROM cat_products
		WHERE active = TRUE
	`
	err := q.QueryRow(ctx, productQuery).Scan(
		&s.TotalProducts, &s.TotalOwned, &s.TotalRented, &s.TotalAvailable,
		&s.LowStockProducts, &s.DamagedProducts,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard products: %w", postgres.MapError(err))
	}

	orderQuery := `
		SELECT COUNT(*) FILTER (WHERE state = 'draft'),
			   COUNT(*) FILTER (WHERE state = 'confirmed')
		FROM rental_orders
	`
	if err := q.QueryRow(ctx, orderQuery).Scan(&s.DraftOrders, &s.ActiveOrders); err != nil {
		return nil, fmt.Errorf("dashboard orders: %w", postgres.MapError(err))
	}

	eventQuery := `
		SELECT COUNT(*)
		FROM cat_events
		WHERE event_date >= CURRENT_DATE
		  AND event_date < CURRENT_DATE + INTERVAL '30 days'
		  AND status != 'cancelled'
	`
	if err := q.QueryRow(ctx, eventQuery).Scan(&s.UpcomingEvents); err != nil {
		return nil, fmt.Errorf("dashboard events: %w", postgres.MapError(err))
	}

	return &s, nil
}

// GetMostRented ranks products by rental_out movements.
func (r *ReportRepo) GetMostRented(ctx context.Context, filter reports.MostRentedFilter) ([]reports.MostRentedRow, error) {
	query := `
		SELECT m.product_id,
			   p.code AS product_code,
			   p.name AS product_name,
			   COUNT(*) AS times_rented,
			   COALESCE(SUM(m.quantity), 0) AS total_quantity
		FROM stock_movements m
		JOIN cat_products p ON p.id = m.product_id
		WHERE m.kind = 'rental_out'
	`
	args := []any{}
	argIdx := 1

	if filter.From != nil {
		query += fmt.Sprintf(" AND m.occurred_at >= $%d", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND m.occurred_at < $%d", argIdx)
		args = append(args, *filter.To)
		argIdx++
	}

	query += fmt.Sprintf(`
		GROUP BY m.product_id, p.code, p.name
		ORDER BY total_quantity DESC, times_rented DESC
		LIMIT $%d
	`, argIdx)
	args = append(args, filter.Limit)

	var rows []reports.MostRentedRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("most rented report: %w", postgres.MapError(err))
	}

	return rows, nil
}

// GetMovementSummary aggregates the ledger per movement kind.
func (r *ReportRepo) GetMovementSummary(ctx context.Context, filter reports.MovementSummaryFilter) ([]reports.MovementSummaryRow, error) {
	query := `
		SELECT kind,
			   COUNT(*) AS count,
			   COALESCE(SUM(quantity), 0) AS total_quantity
		FROM stock_movements
		WHERE 1=1
	`
	args := []any{}
	argIdx := 1

	if filter.From != nil {
		query += fmt.Sprintf(" AND occurred_at >= $%d", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND occurred_at < $%d", argIdx)
		args = append(args, *filter.To)
		argIdx++
	}
	if filter.WarehouseID != nil {
		query += fmt.Sprintf(" AND (origin_warehouse_id = $%d OR dest_warehouse_id = $%d)", argIdx, argIdx)
		args = append(args, *filter.WarehouseID)
		argIdx++
	}

	query += " GROUP BY kind ORDER BY kind"

	var rows []reports.MovementSummaryRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("movement summary report: %w", postgres.MapError(err))
	}

	return rows, nil
}

// GetConditionBreakdown counts active products per physical condition.
func (r *ReportRepo) GetConditionBreakdown(ctx context.Context) ([]reports.ConditionRow, error) {
	query := `
		SELECT condition, COUNT(*) AS count
		FROM cat_products
		WHERE active = TRUE
		GROUP BY condition
		ORDER BY count DESC
	`

	var rows []reports.ConditionRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, query); err != nil {
		return nil, fmt.Errorf("condition breakdown report: %w", postgres.MapError(err))
	}

	return rows, nil
}
