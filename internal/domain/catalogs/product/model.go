// Package product provides the Product catalog: tableware items with
// per-product stock counters (owned, rented, available).
package product

import (
	"context"

	"rentware/internal/core/apperror"
	"rentware/internal/core/entity"
	"rentware/internal/core/id"
)

// Condition describes the physical state of a tableware item.
type Condition string

const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionWorn      Condition = "worn"
	ConditionDamaged   Condition = "damaged"
)

// Product represents a rentable tableware item.
//
// The counter triple (OwnedQty, RentedQty, AvailableQty) is owned
// exclusively by the stock engine once the product participates in any
// movement. Catalog updates must not touch it past that point.
type Product struct {
	entity.Catalog

	// Classification
	Category     *string `db:"category" json:"category,omitempty"`
	Description  *string `db:"description" json:"description,omitempty"`
	Unit         string  `db:"unit" json:"unit"`
	DishwareType string  `db:"dishware_type" json:"dishwareType"`
	Material     string  `db:"material" json:"material"`
	Color        *string `db:"color" json:"color,omitempty"`

	// Condition describes physical state (informational)
	Condition Condition `db:"condition" json:"condition"`

	// Set support: a "set" counts as one unit made of PiecesPerSet pieces
	IsSet       bool `db:"is_set" json:"isSet"`
	PiecesPerSet *int `db:"pieces_per_set" json:"piecesPerSet,omitempty"`

	// Stock counters
	OwnedQty         int64 `db:"owned_qty" json:"ownedQty"`
	RentedQty        int64 `db:"rented_qty" json:"rentedQty"`
	AvailableQty     int64 `db:"available_qty" json:"availableQty"`
	ReorderThreshold int64 `db:"reorder_threshold" json:"reorderThreshold"`

	// WarehouseID is the product's home warehouse
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`
}

// NewProduct creates a product with zeroed counters.
func NewProduct(code, name, unit, dishwareType, material string, warehouseID id.ID) *Product {
	return &Product{
		Catalog:      entity.NewCatalog(code, name),
		Unit:         unit,
		DishwareType: dishwareType,
		Material:     material,
		Condition:    ConditionExcellent,
		WarehouseID:  warehouseID,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.Unit == "" {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unit")
	}
	if p.DishwareType == "" {
		return apperror.NewValidation("dishware type is required").
			WithDetail("field", "dishwareType")
	}
	if p.Material == "" {
		return apperror.NewValidation("material is required").
			WithDetail("field", "material")
	}
	if id.IsNil(p.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}
	if p.IsSet && (p.PiecesPerSet == nil || *p.PiecesPerSet <= 0) {
		return apperror.NewValidation("pieces per set must be positive for sets").
			WithDetail("field", "piecesPerSet")
	}
	if p.OwnedQty < 0 || p.RentedQty < 0 || p.AvailableQty < 0 || p.ReorderThreshold < 0 {
		return apperror.NewValidation("stock counters must not be negative")
	}

	return p.CheckCounters()
}

// CheckCounters verifies the counter invariants:
//
//	0 <= rented <= owned
//	0 <= available <= max(owned - rented, 0)
func (p *Product) CheckCounters() error {
	if p.RentedQty < 0 || p.RentedQty > p.OwnedQty {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "rented quantity exceeds owned quantity").
			WithDetail("product_id", p.ID.String()).
			WithDetail("owned", p.OwnedQty).
			WithDetail("rented", p.RentedQty)
	}
	if p.AvailableQty < 0 || p.AvailableQty > p.AvailableCap() {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "available quantity out of range").
			WithDetail("product_id", p.ID.String()).
			WithDetail("available", p.AvailableQty).
			WithDetail("cap", p.AvailableCap())
	}
	return nil
}

// AvailableCap returns the upper bound for the available counter:
// max(owned - rented, 0).
func (p *Product) AvailableCap() int64 {
	cap := p.OwnedQty - p.RentedQty
	if cap < 0 {
		return 0
	}
	return cap
}

// ClampAvailable normalizes the available counter into [0, AvailableCap].
// Defends against drift; the only silent correction in the engine.
func (p *Product) ClampAvailable() {
	if cap := p.AvailableCap(); p.AvailableQty > cap {
		p.AvailableQty = cap
	}
	if p.AvailableQty < 0 {
		p.AvailableQty = 0
	}
}

// IsLowStock reports whether available stock is at or below the
// reorder threshold.
func (p *Product) IsLowStock() bool {
	return p.AvailableQty <= p.ReorderThreshold
}
