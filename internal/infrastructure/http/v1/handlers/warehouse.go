package handlers

import (
	"github.com/gin-gonic/gin"

	"rentware/internal/domain/catalogs/warehouse"
	"rentware/internal/infrastructure/http/v1/dto"
)

// WarehouseHandler serves the warehouse catalog.
type WarehouseHandler struct {
	*CatalogHandler[*warehouse.Warehouse, dto.CreateWarehouseRequest, dto.UpdateWarehouseRequest]
	service *warehouse.Service
}

// NewWarehouseHandler creates a warehouse handler.
func NewWarehouseHandler(base *BaseHandler, service *warehouse.Service) *WarehouseHandler {
	config := CatalogHandlerConfig[*warehouse.Warehouse, dto.CreateWarehouseRequest, dto.UpdateWarehouseRequest]{
		Service:    service.CatalogService,
		EntityName: "warehouse",

		MapCreateDTO: func(req dto.CreateWarehouseRequest) (*warehouse.Warehouse, error) {
			return req.ToEntity(), nil
		},

		MapUpdateDTO: func(req dto.UpdateWarehouseRequest, existing *warehouse.Warehouse) (*warehouse.Warehouse, error) {
			req.ApplyTo(existing)
			return existing, nil
		},
	}

	return &WarehouseHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// Delete handles DELETE /warehouses/:id. Refused while products still
// reference the warehouse.
func (h *WarehouseHandler) Delete(c *gin.Context) {
	warehouseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), warehouseID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// ProductCounts handles GET /warehouses/product-counts.
func (h *WarehouseHandler) ProductCounts(c *gin.Context) {
	counts, err := h.service.ProductCounts(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	byWarehouse := make(map[string]int64, len(counts))
	for whID, n := range counts {
		byWarehouse[whID.String()] = n
	}

	h.OK(c, gin.H{"counts": byWarehouse})
}
