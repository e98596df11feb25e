package reports

import (
	"context"
)

// Repository defines report data access.
type Repository interface {
	GetDashboardSummary(ctx context.Context) (*DashboardSummary, error)
	GetMostRented(ctx context.Context, filter MostRentedFilter) ([]MostRentedRow, error)
	GetMovementSummary(ctx context.Context, filter MovementSummaryFilter) ([]MovementSummaryRow, error)
	GetConditionBreakdown(ctx context.Context) ([]ConditionRow, error)
}
