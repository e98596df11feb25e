package product

import (
	"context"

	"rentware/internal/core/apperror"
	"rentware/internal/core/id"
	"rentware/internal/core/tx"
	"rentware/internal/domain"
)

// Service provides business logic for the Product catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Product]
	repo Repository
}

// NewService creates a new Product service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.checkCodeUnique)

	return svc
}

// prepareForCreate enforces code uniqueness and seeds the available
// counter when the caller supplied only owned/rented.
func (s *Service) prepareForCreate(ctx context.Context, p *Product) error {
	if p.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}

	exists, err := s.repo.ExistsByCode(ctx, p.Code)
	if err != nil {
		return err
	}
	if exists {
		return apperror.NewDuplicate("product", "code", p.Code)
	}

	if p.AvailableQty == 0 && p.OwnedQty > 0 {
		p.AvailableQty = p.AvailableCap()
	}
	p.ClampAvailable()

	return nil
}

// checkCodeUnique guards against code collisions on rename.
func (s *Service) checkCodeUnique(ctx context.Context, p *Product) error {
	existing, err := s.repo.GetByCode(ctx, p.Code)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != p.ID {
		return apperror.NewDuplicate("product", "code", p.Code)
	}
	return nil
}

// --- Entity-specific methods ---

// ListProducts retrieves products with extended filtering.
func (s *Service) ListProducts(ctx context.Context, filter ListFilter) (domain.ListResult[*Product], error) {
	return s.repo.ListProducts(ctx, filter)
}

// GetLowStock returns active products at or under their reorder threshold.
func (s *Service) GetLowStock(ctx context.Context) ([]*Product, error) {
	return s.repo.ListLowStock(ctx)
}

// SetCondition updates the physical condition of a product.
func (s *Service) SetCondition(ctx context.Context, productID id.ID, cond Condition) error {
	p, err := s.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	switch cond {
	case ConditionExcellent, ConditionGood, ConditionWorn, ConditionDamaged:
	default:
		return apperror.NewValidation("invalid condition").
			WithDetail("field", "condition").
			WithDetail("value", string(cond))
	}
	p.Condition = cond
	return s.Update(ctx, p)
}
