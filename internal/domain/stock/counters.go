package stock

import (
	"sort"

	"rentware/internal/core/apperror"
)

// Counters is the per-product counter triple the engine mutates.
// The same delta rules drive live mutation and ledger replay, so the
// two can never diverge.
type Counters struct {
	Owned     int64
	Rented    int64
	Available int64
}

// Apply mutates the counters for one movement of the given kind.
// productID is used only for error details.
func (c *Counters) Apply(kind Kind, qty int64, productID string) error {
	if qty <= 0 {
		return apperror.NewInvalidQuantity(qty)
	}

	switch kind {
	case KindInflow, KindAdjustUp:
		c.Owned += qty
		c.Available += qty

	case KindOutflow:
		if c.Owned < qty || c.Available < qty {
			return apperror.NewInsufficientStock(productID, qty, c.Owned, c.Available)
		}
		c.Owned -= qty
		c.Available -= qty

	case KindAdjustDown:
		if c.Owned < qty || c.Available < qty {
			return apperror.NewInsufficientStock(productID, qty, c.Owned, c.Available)
		}
		c.Owned -= qty
		c.Available -= qty

	case KindRentalOut:
		if c.Available < qty {
			return apperror.NewInsufficientAvailable(productID, qty, c.Available)
		}
		c.Rented += qty
		c.Available -= qty

	case KindRentalReturn:
		if c.Rented < qty {
			return apperror.NewExcessReturn(productID, qty, c.Rented)
		}
		c.Rented -= qty
		c.Available += qty

	default:
		return apperror.NewInvalidMovementKind(string(kind))
	}

	return nil
}

// Clamp normalizes the available counter into [0, max(owned-rented, 0)].
// Runs after every mutation as a defense against drift; it is the only
// silent correction in the engine.
func (c *Counters) Clamp() {
	cap := c.Owned - c.Rented
	if cap < 0 {
		cap = 0
	}
	if c.Available > cap {
		c.Available = cap
	}
	if c.Available < 0 {
		c.Available = 0
	}
}

// Replay re-applies recorded movements to zeroed counters in timestamp
// order and returns the resulting triple. Replaying a product's full
// ledger reproduces its current counters exactly.
func Replay(movements []Movement) (Counters, error) {
	ordered := make([]Movement, len(movements))
	copy(ordered, movements)
	// CreatedAt breaks OccurredAt ties; the ledger returns rows newest
	// first, and a plain stable sort would keep equal-timestamp rows in
	// that reversed insertion order.
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].OccurredAt.Equal(ordered[j].OccurredAt) {
			return ordered[i].OccurredAt.Before(ordered[j].OccurredAt)
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	var c Counters
	for _, m := range ordered {
		if err := c.Apply(m.Kind, m.Quantity, m.ProductID.String()); err != nil {
			return c, err
		}
		c.Clamp()
	}
	return c, nil
}
