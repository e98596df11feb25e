// Package rental implements the rental order lifecycle: draft orders with
// line items, confirmation that moves stock out, return that brings it back,
// and cancellation of unconfirmed drafts.
package rental

import (
	"time"

	"rentware/internal/core/apperror"
	"rentware/internal/core/entity"
	"rentware/internal/core/id"
	"rentware/internal/core/types"
)

// LineItem is one product line on a rental order.
type LineItem struct {
	ID        id.ID        `json:"id" db:"id"`
	OrderID   id.ID        `json:"order_id" db:"order_id"`
	LineNo    int          `json:"line_no" db:"line_no"`
	ProductID id.ID        `json:"product_id" db:"product_id"`
	Quantity  int64        `json:"quantity" db:"quantity"`
	UnitPrice *types.Money `json:"unit_price,omitempty" db:"unit_price"`
	Notes     *string      `json:"notes,omitempty" db:"notes"`
}

// Validate checks a single line item.
func (li *LineItem) Validate() error {
	if id.IsNil(li.ProductID) {
		return apperror.NewValidation("line item product is required").
			WithDetail("line_no", li.LineNo)
	}
	if li.Quantity <= 0 {
		return apperror.NewInvalidQuantity(li.Quantity)
	}
	return nil
}

// Order is a rental order. Items are kept in stored line order; stock
// movements produced on confirm and return follow that order.
type Order struct {
	entity.BaseEntity

	Code        string    `json:"code" db:"code"`
	CustomerID  id.ID     `json:"customer_id" db:"customer_id"`
	EventID     *id.ID    `json:"event_id,omitempty" db:"event_id"`
	PeriodStart time.Time `json:"period_start" db:"period_start"`
	PeriodEnd   time.Time `json:"period_end" db:"period_end"`
	State       State     `json:"state" db:"state"`
	Notes       *string   `json:"notes,omitempty" db:"notes"`

	Items []LineItem `json:"items" db:"-"`
}

// NewOrder creates a draft order for a customer.
func NewOrder(customerID id.ID, periodStart, periodEnd time.Time) *Order {
	return &Order{
		BaseEntity:  entity.NewBaseEntity(),
		CustomerID:  customerID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		State:       StateDraft,
	}
}

// Validate checks the order header and all line items.
func (o *Order) Validate() error {
	if id.IsNil(o.CustomerID) {
		return apperror.NewValidation("customer is required")
	}
	if !o.State.Valid() {
		return apperror.NewValidation("unknown order state").
			WithDetail("state", string(o.State))
	}
	if !o.PeriodEnd.IsZero() && !o.PeriodStart.IsZero() && o.PeriodEnd.Before(o.PeriodStart) {
		return apperror.NewValidation("rental period end before start").
			WithDetail("period_start", o.PeriodStart).
			WithDetail("period_end", o.PeriodEnd)
	}
	for i := range o.Items {
		if err := o.Items[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsDraft reports whether the order is still editable.
func (o *Order) IsDraft() bool { return o.State == StateDraft }

// TotalQuantity returns the summed quantity over all line items.
func (o *Order) TotalQuantity() int64 {
	var total int64
	for i := range o.Items {
		total += o.Items[i].Quantity
	}
	return total
}

// TotalPrice returns the summed line totals for items that carry a price.
func (o *Order) TotalPrice() types.Money {
	total := types.ZeroMoney()
	for i := range o.Items {
		if o.Items[i].UnitPrice == nil {
			continue
		}
		line := o.Items[i].UnitPrice.Mul(types.MoneyFromInt(o.Items[i].Quantity))
		total = total.Add(line)
	}
	return total
}
