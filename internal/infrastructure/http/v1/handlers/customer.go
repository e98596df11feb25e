package handlers

import (
	"rentware/internal/domain/catalogs/customer"
	"rentware/internal/infrastructure/http/v1/dto"
)

// CustomerHandler serves the customer catalog.
type CustomerHandler = CatalogHandler[
	*customer.Customer,
	dto.CreateCustomerRequest,
	dto.UpdateCustomerRequest,
]

// NewCustomerHandler creates a customer handler.
func NewCustomerHandler(base *BaseHandler, service *customer.Service) *CustomerHandler {
	config := CatalogHandlerConfig[*customer.Customer, dto.CreateCustomerRequest, dto.UpdateCustomerRequest]{
		Service:    service.CatalogService,
		EntityName: "customer",

		MapCreateDTO: func(req dto.CreateCustomerRequest) (*customer.Customer, error) {
			return req.ToEntity(), nil
		},

		MapUpdateDTO: func(req dto.UpdateCustomerRequest, existing *customer.Customer) (*customer.Customer, error) {
			req.ApplyTo(existing)
			return existing, nil
		},
	}

	return NewCatalogHandler(base, config)
}
