package customer

import (
	"context"

	"rentware/internal/domain"
)

// Repository defines the interface for Customer persistence.
type Repository interface {
	domain.CatalogRepository[*Customer]

	// ExistsByEmail checks email uniqueness across customers.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
