package dto

import (
	"rentware/internal/core/id"
	"rentware/internal/domain/catalogs/product"
)

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	Code         string  `json:"code"`
	Name         string  `json:"name" binding:"required"`
	Category     *string `json:"category"`
	Description  *string `json:"description"`
	Unit         string  `json:"unit" binding:"required"`
	DishwareType string  `json:"dishwareType" binding:"required"`
	Material     string  `json:"material" binding:"required"`
	Color        *string `json:"color"`

	IsSet        bool `json:"isSet"`
	PiecesPerSet *int `json:"piecesPerSet"`

	OwnedQty         int64 `json:"ownedQty"`
	ReorderThreshold int64 `json:"reorderThreshold"`

	WarehouseID string `json:"warehouseId" binding:"required"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateProductRequest) ToEntity() (*product.Product, error) {
	whID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return nil, err
	}

	p := product.NewProduct(r.Code, r.Name, r.Unit, r.DishwareType, r.Material, whID)
	p.Category = r.Category
	p.Description = r.Description
	p.Color = r.Color
	p.IsSet = r.IsSet
	p.PiecesPerSet = r.PiecesPerSet
	p.OwnedQty = r.OwnedQty
	p.ReorderThreshold = r.ReorderThreshold
	return p, nil
}

// UpdateProductRequest is the request body for updating a product.
// Counters are absent on purpose; they belong to the stock engine.
type UpdateProductRequest struct {
	Code         string  `json:"code"`
	Name         string  `json:"name" binding:"required"`
	Category     *string `json:"category"`
	Description  *string `json:"description"`
	Unit         string  `json:"unit" binding:"required"`
	DishwareType string  `json:"dishwareType" binding:"required"`
	Material     string  `json:"material" binding:"required"`
	Color        *string `json:"color"`

	IsSet        bool `json:"isSet"`
	PiecesPerSet *int `json:"piecesPerSet"`

	ReorderThreshold int64 `json:"reorderThreshold"`

	Version int `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update onto an existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	p.Code = r.Code
	p.Name = r.Name
	p.Category = r.Category
	p.Description = r.Description
	p.Unit = r.Unit
	p.DishwareType = r.DishwareType
	p.Material = r.Material
	p.Color = r.Color
	p.IsSet = r.IsSet
	p.PiecesPerSet = r.PiecesPerSet
	p.ReorderThreshold = r.ReorderThreshold
	p.Version = r.Version
}

// SetConditionRequest updates a product's physical condition.
type SetConditionRequest struct {
	Condition product.Condition `json:"condition" binding:"required"`
}
