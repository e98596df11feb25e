package handlers

import (
	"github.com/gin-gonic/gin"

	"rentware/internal/domain/catalogs/event"
	"rentware/internal/infrastructure/http/v1/dto"
)

// EventHandler serves the event catalog.
type EventHandler struct {
	*CatalogHandler[*event.Event, dto.CreateEventRequest, dto.UpdateEventRequest]
	service *event.Service
}

// NewEventHandler creates an event handler.
func NewEventHandler(base *BaseHandler, service *event.Service) *EventHandler {
	config := CatalogHandlerConfig[*event.Event, dto.CreateEventRequest, dto.UpdateEventRequest]{
		Service:    service.CatalogService,
		EntityName: "event",

		MapCreateDTO: func(req dto.CreateEventRequest) (*event.Event, error) {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateEventRequest, existing *event.Event) (*event.Event, error) {
			req.ApplyTo(existing)
			return existing, nil
		},
	}

	return &EventHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// Agenda handles GET /events/agenda?days=14.
func (h *EventHandler) Agenda(c *gin.Context) {
	days := h.ParseIntQuery(c, "days", 14)

	items, err := h.service.Agenda(c.Request.Context(), days)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": items})
}

// ByCustomer handles GET /events/by-customer/:customerId.
func (h *EventHandler) ByCustomer(c *gin.Context) {
	customerID, ok := h.ParseID(c, "customerId")
	if !ok {
		return
	}

	items, err := h.service.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": items})
}
