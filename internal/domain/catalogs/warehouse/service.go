package warehouse

import (
	"context"
	"fmt"

	"rentware/internal/core/apperror"
	"rentware/internal/core/id"
	"rentware/internal/core/tx"
	"rentware/internal/domain"
)

// Service provides business logic for the Warehouse catalog.
type Service struct {
	*domain.CatalogService[*Warehouse]
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new Warehouse service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Warehouse]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "warehouse",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		txManager:      txManager,
	}

	base.Hooks().OnBeforeCreate(svc.checkCodeUnique)
	base.Hooks().OnBeforeDelete(svc.refuseWhileReferenced)

	return svc
}

func (s *Service) checkCodeUnique(ctx context.Context, w *Warehouse) error {
	if w.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}
	exists, err := s.repo.ExistsByCode(ctx, w.Code)
	if err != nil {
		return err
	}
	if exists {
		return apperror.NewDuplicate("warehouse", "code", w.Code)
	}
	return nil
}

// refuseWhileReferenced keeps warehouses with homed products alive.
func (s *Service) refuseWhileReferenced(ctx context.Context, w *Warehouse) error {
	has, err := s.repo.HasProducts(ctx, w.ID)
	if err != nil {
		return fmt.Errorf("check warehouse references: %w", err)
	}
	if has {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"cannot remove a warehouse with products assigned to it").
			WithDetail("warehouse_id", w.ID.String())
	}
	return nil
}

// Delete removes the warehouse permanently when no products reference it.
func (s *Service) Delete(ctx context.Context, warehouseID id.ID) error {
	w, err := s.GetByID(ctx, warehouseID)
	if err != nil {
		return err
	}
	if err := s.refuseWhileReferenced(ctx, w); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, warehouseID)
	})
}

// --- Directory queries consumed by the stock engine ---

// Count returns the number of warehouses.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// SingleIDIfAny returns the only warehouse ID, if exactly one exists.
func (s *Service) SingleIDIfAny(ctx context.Context) (*id.ID, error) {
	return s.repo.SingleIDIfAny(ctx)
}

// ProductCounts returns products homed per warehouse.
func (s *Service) ProductCounts(ctx context.Context) (map[id.ID]int64, error) {
	return s.repo.CountProducts(ctx)
}
