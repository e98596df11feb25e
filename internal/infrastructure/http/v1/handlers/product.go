package handlers

import (
	"github.com/gin-gonic/gin"

	"rentware/internal/core/id"
	"rentware/internal/domain/catalogs/product"
	"rentware/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves the product catalog plus stock-flavored reads.
type ProductHandler struct {
	*CatalogHandler[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]
	service *product.Service
}

// NewProductHandler creates a product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	config := CatalogHandlerConfig[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]{
		Service:    service.CatalogService,
		EntityName: "product",

		MapCreateDTO: func(req dto.CreateProductRequest) (*product.Product, error) {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) (*product.Product, error) {
			req.ApplyTo(existing)
			return existing, nil
		},
	}

	return &ProductHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// List handles GET /products with product-specific filters.
func (h *ProductHandler) List(c *gin.Context) {
	filter := product.ListFilter{ListFilter: h.ParseListFilter(c)}

	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if dishware := c.Query("dishwareType"); dishware != "" {
		filter.DishwareType = &dishware
	}
	if whStr := c.Query("warehouseId"); whStr != "" {
		whID, err := id.Parse(whStr)
		if err != nil {
			h.Error(c, invalidIDError("warehouseId"))
			return
		}
		filter.WarehouseID = &whID
	}
	filter.LowStockOnly = c.Query("lowStockOnly") == "true"

	result, err := h.service.ListProducts(c.Request.Context(), filter)
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

// LowStock handles GET /products/low-stock.
func (h *ProductHandler) LowStock(c *gin.Context) {
	items, err := h.service.GetLowStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": items})
}

// SetCondition handles POST /products/:id/condition.
func (h *ProductHandler) SetCondition(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.SetConditionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetCondition(c.Request.Context(), productID, req.Condition); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "condition updated")
}
