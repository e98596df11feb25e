// Package stock provides the movement ledger and the stock mutation
// engine. Every change to a product's counter triple goes through the
// engine and is recorded as an immutable movement.
package stock

import (
	"time"

	"rentware/internal/core/id"
)

// Kind classifies an inventory movement.
type Kind string

const (
	// KindInflow adds purchased or recovered units to owned and available.
	KindInflow Kind = "inflow"
	// KindOutflow removes units permanently (sale, write-off).
	KindOutflow Kind = "outflow"
	// KindAdjustUp corrects counters upward after a recount.
	KindAdjustUp Kind = "adjust_up"
	// KindAdjustDown corrects counters downward after a recount.
	KindAdjustDown Kind = "adjust_down"
	// KindRentalOut commits available units to a confirmed rental.
	KindRentalOut Kind = "rental_out"
	// KindRentalReturn brings rented units back to available.
	KindRentalReturn Kind = "rental_return"
)

// Valid reports whether k is one of the six defined kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindInflow, KindOutflow, KindAdjustUp, KindAdjustDown,
		KindRentalOut, KindRentalReturn:
		return true
	}
	return false
}

// ParseKind converts a string to a Kind, case-sensitively.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	return k, k.Valid()
}

// Movement is an immutable record of a single quantity change.
// Movements are never updated or deleted; corrections are new
// compensating movements.
type Movement struct {
	ID        id.ID     `db:"id" json:"id"`
	ProductID id.ID     `db:"product_id" json:"productId"`

	// OccurredAt is the business timestamp; the ledger orders by it.
	OccurredAt time.Time `db:"occurred_at" json:"occurredAt"`

	Kind     Kind  `db:"kind" json:"kind"`
	Quantity int64 `db:"quantity" json:"quantity"`

	OriginWarehouseID *id.ID `db:"origin_warehouse_id" json:"originWarehouseId,omitempty"`
	DestWarehouseID   *id.ID `db:"dest_warehouse_id" json:"destWarehouseId,omitempty"`

	// Reference links the movement to its cause, e.g. a rental order code.
	Reference string  `db:"reference" json:"reference,omitempty"`
	Notes     *string `db:"notes" json:"notes,omitempty"`
	ActorID   *id.ID  `db:"actor_id" json:"actorId,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovement creates a movement with a generated ID and timestamps.
func NewMovement(productID id.ID, kind Kind, quantity int64, reference string) *Movement {
	now := time.Now().UTC()
	return &Movement{
		ID:         id.New(),
		ProductID:  productID,
		OccurredAt: now,
		Kind:       kind,
		Quantity:   quantity,
		Reference:  reference,
		CreatedAt:  now,
	}
}
