// Package reports provides read-only reporting over stock and rentals.
package reports

import (
	"time"

	"rentware/internal/core/id"
)

// DashboardSummary is the front page of the back office.
type DashboardSummary struct {
	TotalProducts  int64 `json:"totalProducts"`
	TotalOwned     int64 `json:"totalOwned"`
	TotalRented    int64 `json:"totalRented"`
	TotalAvailable int64 `json:"totalAvailable"`

	LowStockProducts int64 `json:"lowStockProducts"`
	DamagedProducts  int64 `json:"damagedProducts"`

	DraftOrders  int64 `json:"draftOrders"`
	ActiveOrders int64 `json:"activeOrders"`

	UpcomingEvents int64 `json:"upcomingEvents"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// MostRentedRow is one entry in the most-rented products ranking.
type MostRentedRow struct {
	ProductID     id.ID  `json:"productId" db:"product_id"`
	ProductCode   string `json:"productCode" db:"product_code"`
	ProductName   string `json:"productName" db:"product_name"`
	TimesRented   int64  `json:"timesRented" db:"times_rented"`
	TotalQuantity int64  `json:"totalQuantity" db:"total_quantity"`
}

// MostRentedFilter narrows the most-rented ranking.
type MostRentedFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// MovementSummaryRow aggregates ledger entries of one kind.
type MovementSummaryRow struct {
	Kind          string `json:"kind" db:"kind"`
	Count         int64  `json:"count" db:"count"`
	TotalQuantity int64  `json:"totalQuantity" db:"total_quantity"`
}

// MovementSummaryFilter bounds the movement summary.
type MovementSummaryFilter struct {
	From        *time.Time
	To          *time.Time
	WarehouseID *id.ID
}

// ConditionRow counts products in one physical condition.
type ConditionRow struct {
	Condition string `json:"condition" db:"condition"`
	Count     int64  `json:"count" db:"count"`
}
