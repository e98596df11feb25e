package dto

import (
	"time"

	"rentware/internal/core/apperror"
	"rentware/internal/core/id"
	"rentware/internal/core/types"
	"rentware/internal/domain/rental"
)

// OrderItemRequest is one line of an order request.
type OrderItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Quantity  int64   `json:"quantity" binding:"required"`
	UnitPrice *string `json:"unitPrice"`
	Notes     *string `json:"notes"`
}

// ToLineItem converts the request line to a domain line item.
// Line numbers are assigned by the order service.
func (r *OrderItemRequest) ToLineItem() (rental.LineItem, error) {
	var item rental.LineItem

	productID, err := id.Parse(r.ProductID)
	if err != nil {
		return item, apperror.NewValidation("invalid productId format")
	}

	item = rental.LineItem{
		ProductID: productID,
		Quantity:  r.Quantity,
		Notes:     r.Notes,
	}

	if r.UnitPrice != nil && *r.UnitPrice != "" {
		price, err := types.NewMoneyFromString(*r.UnitPrice)
		if err != nil {
			return item, apperror.NewValidation("invalid unitPrice format").
				WithDetail("value", *r.UnitPrice)
		}
		item.UnitPrice = &price
	}

	return item, nil
}

// CreateOrderRequest is the request body for creating a draft order.
type CreateOrderRequest struct {
	CustomerID  string             `json:"customerId" binding:"required"`
	EventID     *string            `json:"eventId"`
	PeriodStart time.Time          `json:"periodStart" binding:"required"`
	PeriodEnd   time.Time          `json:"periodEnd" binding:"required"`
	Notes       *string            `json:"notes"`
	Items       []OrderItemRequest `json:"items"`
}

// ToEntity converts the request to a draft order.
func (r *CreateOrderRequest) ToEntity() (*rental.Order, error) {
	custID, err := id.Parse(r.CustomerID)
	if err != nil {
		return nil, apperror.NewValidation("invalid customerId format")
	}

	o := rental.NewOrder(custID, r.PeriodStart, r.PeriodEnd)
	o.Notes = r.Notes

	if r.EventID != nil && *r.EventID != "" {
		o.EventID, err = id.ParsePtr(*r.EventID)
		if err != nil {
			return nil, apperror.NewValidation("invalid eventId format")
		}
	}

	items, err := toLineItems(r.Items)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return o, nil
}

// UpdateOrderRequest is the request body for updating a draft order
// header.
type UpdateOrderRequest struct {
	EventID     *string   `json:"eventId"`
	PeriodStart time.Time `json:"periodStart" binding:"required"`
	PeriodEnd   time.Time `json:"periodEnd" binding:"required"`
	Notes       *string   `json:"notes"`
	Version     int       `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update onto an existing draft order.
func (r *UpdateOrderRequest) ApplyTo(o *rental.Order) error {
	o.PeriodStart = r.PeriodStart
	o.PeriodEnd = r.PeriodEnd
	o.Notes = r.Notes
	o.Version = r.Version

	o.EventID = nil
	if r.EventID != nil && *r.EventID != "" {
		eventID, err := id.ParsePtr(*r.EventID)
		if err != nil {
			return apperror.NewValidation("invalid eventId format")
		}
		o.EventID = eventID
	}

	return nil
}

// ReplaceItemsRequest swaps the full item set of a draft order.
type ReplaceItemsRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required"`
}

// ToLineItems converts the request lines to domain line items.
func (r *ReplaceItemsRequest) ToLineItems() ([]rental.LineItem, error) {
	return toLineItems(r.Items)
}

func toLineItems(reqs []OrderItemRequest) ([]rental.LineItem, error) {
	items := make([]rental.LineItem, 0, len(reqs))
	for i, req := range reqs {
		item, err := req.ToLineItem()
		if err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				return nil, appErr.WithDetail("line", i+1)
			}
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
