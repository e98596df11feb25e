// Package event provides the Event catalog: customer occasions
// (weddings, banquets) that rentals are booked for.
package event

import (
	"context"
	"time"

	"rentware/internal/core/apperror"
	"rentware/internal/core/entity"
	"rentware/internal/core/id"
)

// Status of an event.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
)

// Event represents a customer occasion rentals can attach to.
type Event struct {
	entity.Catalog

	CustomerID id.ID      `db:"customer_id" json:"customerId"`
	EventDate  time.Time  `db:"event_date" json:"eventDate"`
	EventTime  *string    `db:"event_time" json:"eventTime,omitempty"`
	Venue      *string    `db:"venue" json:"venue,omitempty"`
	Notes      *string    `db:"notes" json:"notes,omitempty"`
	Status     Status     `db:"status" json:"status"`
}

// NewEvent creates a new pending Event.
func NewEvent(code, name string, customerID id.ID, date time.Time) *Event {
	return &Event{
		Catalog:    entity.NewCatalog(code, name),
		CustomerID: customerID,
		EventDate:  date,
		Status:     StatusPending,
	}
}

// Validate implements entity.Validatable.
func (e *Event) Validate(ctx context.Context) error {
	if err := e.Catalog.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(e.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}
	if e.EventDate.IsZero() {
		return apperror.NewValidation("event date is required").
			WithDetail("field", "eventDate")
	}
	switch e.Status {
	case StatusPending, StatusConfirmed, StatusDone, StatusCancelled:
	default:
		return apperror.NewValidation("invalid event status").
			WithDetail("field", "status").
			WithDetail("value", string(e.Status))
	}

	return nil
}
