package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"rentware/internal/core/appctx"
	"rentware/internal/core/apperror"
	"rentware/internal/core/id"
	"rentware/internal/domain/catalogs/product"
	"rentware/internal/domain/stock"
	"rentware/internal/infrastructure/http/v1/dto"
)

// StockHandler serves movement application and ledger reads.
type StockHandler struct {
	*BaseHandler
	engine   *stock.Engine
	products *product.Service
}

// NewStockHandler creates a stock handler.
func NewStockHandler(base *BaseHandler, engine *stock.Engine, products *product.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		engine:      engine,
		products:    products,
	}
}

// Apply handles POST /stock/movements.
func (h *StockHandler) Apply(c *gin.Context) {
	ctx := c.Request.Context()

	var body dto.ApplyMovementRequest
	if !h.BindJSON(c, &body) {
		return
	}

	req, err := body.ToRequest()
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ActorID = appctx.ActorID(ctx)

	movement, err := h.engine.Apply(ctx, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, movement)
}

// List handles GET /stock/movements.
func (h *StockHandler) List(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	movements, err := h.engine.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": movements})
}

// Get handles GET /stock/movements/:id.
func (h *StockHandler) Get(c *gin.Context) {
	movementID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	movement, err := h.engine.GetMovement(c.Request.Context(), movementID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, movement)
}

// Consistency handles GET /stock/products/:id/consistency. It replays
// the product's full movement history and compares the result against
// the live counters.
func (h *StockHandler) Consistency(c *gin.Context) {
	ctx := c.Request.Context()

	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.products.GetByID(ctx, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	movements, err := h.engine.ListMovements(ctx, stock.Filter{ProductID: &productID})
	if err != nil {
		h.Error(c, err)
		return
	}

	replayed, err := stock.Replay(movements)
	if err != nil {
		h.Error(c, err)
		return
	}

	live := dto.CountersDTO{
		Owned:     p.OwnedQty,
		Rented:    p.RentedQty,
		Available: p.AvailableQty,
	}
	rep := dto.CountersDTO{
		Owned:     replayed.Owned,
		Rented:    replayed.Rented,
		Available: replayed.Available,
	}

	h.OK(c, dto.ConsistencyResponse{
		ProductID:     productID.String(),
		Consistent:    live == rep,
		Live:          live,
		Replayed:      rep,
		MovementCount: len(movements),
	})
}

func (h *StockHandler) parseFilter(c *gin.Context) (stock.Filter, bool) {
	filter := stock.Filter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid from date, RFC3339 expected"))
			return filter, false
		}
		filter.From = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid to date, RFC3339 expected"))
			return filter, false
		}
		filter.To = &to
	}
	if kindStr := c.Query("kind"); kindStr != "" {
		kind, ok := stock.ParseKind(kindStr)
		if !ok {
			h.Error(c, apperror.NewInvalidMovementKind(kindStr))
			return filter, false
		}
		filter.Kind = &kind
	}
	if productStr := c.Query("productId"); productStr != "" {
		productID, err := id.Parse(productStr)
		if err != nil {
			h.Error(c, invalidIDError("productId"))
			return filter, false
		}
		filter.ProductID = &productID
	}
	if whStr := c.Query("warehouseId"); whStr != "" {
		whID, err := id.Parse(whStr)
		if err != nil {
			h.Error(c, invalidIDError("warehouseId"))
			return filter, false
		}
		filter.WarehouseID = &whID
	}

	return filter, true
}
