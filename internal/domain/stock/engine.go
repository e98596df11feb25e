package stock

import (
	"context"
	"fmt"

	"rentware/internal/core/apperror"
	"rentware/internal/core/id"
	"rentware/internal/core/tx"
	"rentware/internal/domain/catalogs/product"
	"rentware/pkg/logger"
)

// WarehouseDirectory answers the warehouse questions the engine needs
// for its default-warehouse rule. Injected explicitly; the engine has
// no ambient access to the warehouse catalog.
type WarehouseDirectory interface {
	Count(ctx context.Context) (int64, error)
	SingleIDIfAny(ctx context.Context) (*id.ID, error)
}

// ProductStore is the slice of the product repository the engine uses.
type ProductStore interface {
	// GetForUpdate acquires the exclusive per-product row lock.
	GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error)

	// UpdateCounters persists the counter triple for a locked product.
	UpdateCounters(ctx context.Context, p *product.Product) error
}

// Request describes one movement to apply.
type Request struct {
	ProductID id.ID
	Kind      Kind
	Quantity  int64

	OriginWarehouseID *id.ID
	DestWarehouseID   *id.ID

	Reference string
	Notes     *string
	ActorID   *id.ID
}

// Engine applies movements to product counters. One Apply call is one
// atomic unit of work: lock the product row, mutate and validate the
// counters, resolve warehouses, persist counters and append the ledger
// entry, all inside a single transaction.
//
// When Apply runs inside an enclosing transaction (order confirm or
// return), it joins that transaction, so a batch of movements commits
// or rolls back as a whole.
type Engine struct {
	products   ProductStore
	ledger     Ledger
	warehouses WarehouseDirectory
	txManager  tx.Manager
}

// NewEngine creates a stock mutation engine.
func NewEngine(products ProductStore, ledger Ledger, warehouses WarehouseDirectory, txManager tx.Manager) *Engine {
	return &Engine{
		products:   products,
		ledger:     ledger,
		warehouses: warehouses,
		txManager:  txManager,
	}
}

// Apply validates and applies one movement.
//
// On success the product invariants hold and exactly one new movement
// exists in the ledger. On any failure nothing is persisted.
func (e *Engine) Apply(ctx context.Context, req Request) (*Movement, error) {
	if req.Quantity <= 0 {
		return nil, apperror.NewInvalidQuantity(req.Quantity)
	}
	if !req.Kind.Valid() {
		return nil, apperror.NewInvalidMovementKind(string(req.Kind))
	}

	var mv *Movement
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// Exclusive per-product lock, held for the whole
		// check-mutate-log sequence.
		p, err := e.products.GetForUpdate(ctx, req.ProductID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("product", req.ProductID.String())
			}
			return fmt.Errorf("lock product: %w", err)
		}

		counters := Counters{Owned: p.OwnedQty, Rented: p.RentedQty, Available: p.AvailableQty}
		if err := counters.Apply(req.Kind, req.Quantity, p.ID.String()); err != nil {
			return err
		}
		counters.Clamp()

		p.OwnedQty = counters.Owned
		p.RentedQty = counters.Rented
		p.AvailableQty = counters.Available
		if err := p.CheckCounters(); err != nil {
			return err
		}

		origin, dest, err := e.resolveWarehouses(ctx, req.OriginWarehouseID, req.DestWarehouseID)
		if err != nil {
			return err
		}

		mv = NewMovement(p.ID, req.Kind, req.Quantity, req.Reference)
		mv.OriginWarehouseID = origin
		mv.DestWarehouseID = dest
		mv.Notes = req.Notes
		mv.ActorID = req.ActorID

		if err := e.products.UpdateCounters(ctx, p); err != nil {
			return fmt.Errorf("persist counters: %w", err)
		}
		if err := e.ledger.Record(ctx, mv); err != nil {
			return fmt.Errorf("append movement: %w", err)
		}

		logger.Info(ctx, "movement applied",
			"movement_id", mv.ID,
			"product_id", p.ID,
			"kind", req.Kind,
			"quantity", req.Quantity,
			"owned", p.OwnedQty,
			"rented", p.RentedQty,
			"available", p.AvailableQty,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mv, nil
}

// resolveWarehouses fills origin and destination when both are unset
// and exactly one warehouse exists. With zero warehouses the movement
// is refused; with several, the caller must be explicit and the fields
// stay unset.
func (e *Engine) resolveWarehouses(ctx context.Context, origin, dest *id.ID) (*id.ID, *id.ID, error) {
	if origin != nil || dest != nil {
		return origin, dest, nil
	}

	n, err := e.warehouses.Count(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("count warehouses: %w", err)
	}
	if n == 0 {
		return nil, nil, apperror.NewNoWarehouseConfigured()
	}
	if n > 1 {
		return nil, nil, nil
	}

	single, err := e.warehouses.SingleIDIfAny(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve default warehouse: %w", err)
	}
	return single, single, nil
}

// ListMovements queries the ledger, newest first.
func (e *Engine) ListMovements(ctx context.Context, filter Filter) ([]Movement, error) {
	return e.ledger.List(ctx, filter)
}

// GetMovement retrieves one ledger entry.
func (e *Engine) GetMovement(ctx context.Context, movementID id.ID) (*Movement, error) {
	m, err := e.ledger.GetByID(ctx, movementID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("movement", movementID.String())
		}
		return nil, err
	}
	return m, nil
}
