package dto

import (
	"rentware/internal/domain/catalogs/warehouse"
)

// CreateWarehouseRequest is the request body for creating a warehouse.
type CreateWarehouseRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateWarehouseRequest) ToEntity() *warehouse.Warehouse {
	wh := warehouse.NewWarehouse(r.Code, r.Name)
	wh.Location = r.Location
	wh.Description = r.Description
	return wh
}

// UpdateWarehouseRequest is the request body for updating a warehouse.
type UpdateWarehouseRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	Version     int     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update onto an existing entity.
func (r *UpdateWarehouseRequest) ApplyTo(wh *warehouse.Warehouse) {
	wh.Code = r.Code
	wh.Name = r.Name
	wh.Location = r.Location
	wh.Description = r.Description
	wh.Version = r.Version
}
