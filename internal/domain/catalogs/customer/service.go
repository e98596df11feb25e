package customer

import (
	"context"

	"rentware/internal/core/apperror"
	"rentware/internal/core/tx"
	"rentware/internal/domain"
)

// Service provides business logic for the Customer catalog.
type Service struct {
	*domain.CatalogService[*Customer]
	repo Repository
}

// NewService creates a new Customer service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Customer]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "customer",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.checkEmailUnique)

	return svc
}

func (s *Service) checkEmailUnique(ctx context.Context, c *Customer) error {
	if c.Email == nil || *c.Email == "" {
		return nil
	}
	exists, err := s.repo.ExistsByEmail(ctx, *c.Email)
	if err != nil {
		return err
	}
	if exists {
		return apperror.NewDuplicate("customer", "email", *c.Email)
	}
	return nil
}
