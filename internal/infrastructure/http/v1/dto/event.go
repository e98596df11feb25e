package dto

import (
	"time"

	"rentware/internal/core/id"
	"rentware/internal/domain/catalogs/event"
)

// CreateEventRequest is the request body for creating an event.
type CreateEventRequest struct {
	Code       string    `json:"code"`
	Name       string    `json:"name" binding:"required"`
	CustomerID string    `json:"customerId" binding:"required"`
	EventDate  time.Time `json:"eventDate" binding:"required"`
	EventTime  *string   `json:"eventTime"`
	Venue      *string   `json:"venue"`
	Notes      *string   `json:"notes"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateEventRequest) ToEntity() (*event.Event, error) {
	custID, err := id.Parse(r.CustomerID)
	if err != nil {
		return nil, err
	}

	e := event.NewEvent(r.Code, r.Name, custID, r.EventDate)
	e.EventTime = r.EventTime
	e.Venue = r.Venue
	e.Notes = r.Notes
	return e, nil
}

// UpdateEventRequest is the request body for updating an event.
type UpdateEventRequest struct {
	Code      string       `json:"code"`
	Name      string       `json:"name" binding:"required"`
	EventDate time.Time    `json:"eventDate" binding:"required"`
	EventTime *string      `json:"eventTime"`
	Venue     *string      `json:"venue"`
	Notes     *string      `json:"notes"`
	Status    event.Status `json:"status" binding:"required"`
	Version   int          `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update onto an existing entity.
func (r *UpdateEventRequest) ApplyTo(e *event.Event) {
	e.Code = r.Code
	e.Name = r.Name
	e.EventDate = r.EventDate
	e.EventTime = r.EventTime
	e.Venue = r.Venue
	e.Notes = r.Notes
	e.Status = r.Status
	e.Version = r.Version
}
