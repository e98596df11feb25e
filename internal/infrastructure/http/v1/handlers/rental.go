package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"rentware/internal/core/apperror"
	"rentware/internal/core/id"
	"rentware/internal/domain/rental"
	"rentware/internal/infrastructure/http/v1/dto"
)

// RentalHandler serves the rental order lifecycle.
type RentalHandler struct {
	*BaseHandler
	service *rental.Service
}

// NewRentalHandler creates a rental order handler.
func NewRentalHandler(base *BaseHandler, service *rental.Service) *RentalHandler {
	return &RentalHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /orders.
func (h *RentalHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	draft, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), draft)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, created)
}

// List handles GET /orders.
func (h *RentalHandler) List(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /orders/:id.
func (h *RentalHandler) Get(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	order, err := h.service.Get(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, order)
}

// GetByCode handles GET /orders/by-code/:code.
func (h *RentalHandler) GetByCode(c *gin.Context) {
	order, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, order)
}

// Update handles PUT /orders/:id for draft orders.
func (h *RentalHandler) Update(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.Get(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.ApplyTo(existing); err != nil {
		h.Error(c, err)
		return
	}

	updated, err := h.service.UpdateDraft(c.Request.Context(), existing)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, updated)
}

// ReplaceItems handles PUT /orders/:id/items for draft orders.
func (h *RentalHandler) ReplaceItems(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ReplaceItemsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	items, err := req.ToLineItems()
	if err != nil {
		h.Error(c, err)
		return
	}

	updated, err := h.service.ReplaceItems(c.Request.Context(), orderID, items)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, updated)
}

// Confirm handles POST /orders/:id/confirm. Moves every line's stock
// out; the order commits or fails as a whole.
func (h *RentalHandler) Confirm(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	order, err := h.service.Confirm(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, order)
}

// Return handles POST /orders/:id/return.
func (h *RentalHandler) Return(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	order, err := h.service.Return(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, order)
}

// Cancel handles POST /orders/:id/cancel. Draft only; the order and
// its items are removed.
func (h *RentalHandler) Cancel(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), orderID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

func (h *RentalHandler) parseFilter(c *gin.Context) (rental.ListFilter, bool) {
	filter := rental.ListFilter{
		Search: c.Query("search"),
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if custStr := c.Query("customerId"); custStr != "" {
		custID, err := id.Parse(custStr)
		if err != nil {
			h.Error(c, invalidIDError("customerId"))
			return filter, false
		}
		filter.CustomerID = &custID
	}
	if eventStr := c.Query("eventId"); eventStr != "" {
		eventID, err := id.Parse(eventStr)
		if err != nil {
			h.Error(c, invalidIDError("eventId"))
			return filter, false
		}
		filter.EventID = &eventID
	}
	if stateStr := c.Query("state"); stateStr != "" {
		state := rental.State(stateStr)
		if !state.Valid() {
			h.Error(c, apperror.NewValidation("unknown order state").WithDetail("state", stateStr))
			return filter, false
		}
		filter.State = &state
	}
	if fromStr := c.Query("periodFrom"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid periodFrom date, RFC3339 expected"))
			return filter, false
		}
		filter.PeriodFrom = from
	}
	if toStr := c.Query("periodTo"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid periodTo date, RFC3339 expected"))
			return filter, false
		}
		filter.PeriodTo = to
	}

	return filter, true
}
