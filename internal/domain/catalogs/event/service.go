package event

import (
	"context"
	"time"

	"rentware/internal/core/id"
	"rentware/internal/core/tx"
	"rentware/internal/domain"
)

// Service provides business logic for the Event catalog.
type Service struct {
	*domain.CatalogService[*Event]
	repo Repository
}

// NewService creates a new Event service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Event]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "event",
	})

	return &Service{
		CatalogService: base,
		repo:           repo,
	}
}

// Agenda returns events scheduled within the next `days` days.
func (s *Service) Agenda(ctx context.Context, days int) ([]*Event, error) {
	if days <= 0 {
		days = 14
	}
	now := time.Now().UTC().Truncate(24 * time.Hour)
	return s.repo.ListUpcoming(ctx, now, now.AddDate(0, 0, days))
}

// ListByCustomer returns all events booked by a customer.
func (s *Service) ListByCustomer(ctx context.Context, customerID id.ID) ([]*Event, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}
