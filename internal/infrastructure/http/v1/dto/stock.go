package dto

import (
	"rentware/internal/core/apperror"
	"rentware/internal/core/id"
	"rentware/internal/domain/stock"
)

// ApplyMovementRequest is the request body for applying one movement.
type ApplyMovementRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Kind      string `json:"kind" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required"`

	OriginWarehouseID *string `json:"originWarehouseId"`
	DestWarehouseID   *string `json:"destWarehouseId"`

	Reference string  `json:"reference"`
	Notes     *string `json:"notes"`
}

// ToRequest converts the body into an engine request. The actor is
// attached by the handler from the request context.
func (r *ApplyMovementRequest) ToRequest() (stock.Request, error) {
	var req stock.Request

	productID, err := id.Parse(r.ProductID)
	if err != nil {
		return req, apperror.NewValidation("invalid productId format")
	}

	kind, ok := stock.ParseKind(r.Kind)
	if !ok {
		return req, apperror.NewInvalidMovementKind(r.Kind)
	}

	req = stock.Request{
		ProductID: productID,
		Kind:      kind,
		Quantity:  r.Quantity,
		Reference: r.Reference,
		Notes:     r.Notes,
	}

	if r.OriginWarehouseID != nil && *r.OriginWarehouseID != "" {
		req.OriginWarehouseID, err = id.ParsePtr(*r.OriginWarehouseID)
		if err != nil {
			return req, apperror.NewValidation("invalid originWarehouseId format")
		}
	}
	if r.DestWarehouseID != nil && *r.DestWarehouseID != "" {
		req.DestWarehouseID, err = id.ParsePtr(*r.DestWarehouseID)
		if err != nil {
			return req, apperror.NewValidation("invalid destWarehouseId format")
		}
	}

	return req, nil
}

// ConsistencyResponse reports whether a product's live counters match
// a replay of its full movement history.
type ConsistencyResponse struct {
	ProductID  string `json:"productId"`
	Consistent bool   `json:"consistent"`

	Live     CountersDTO `json:"live"`
	Replayed CountersDTO `json:"replayed"`

	MovementCount int `json:"movementCount"`
}

// CountersDTO is the owned/rented/available triple.
type CountersDTO struct {
	Owned     int64 `json:"owned"`
	Rented    int64 `json:"rented"`
	Available int64 `json:"available"`
}
