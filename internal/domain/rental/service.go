package rental

import (
	"context"
	"fmt"

	"rentware/internal/core/apperror"
	"rentware/internal/core/appctx"
	"rentware/internal/core/id"
	"rentware/internal/core/tx"
	"rentware/internal/domain"
	"rentware/internal/domain/stock"
	"rentware/pkg/logger"
)

// CodePrefix is the sequence prefix for order codes (ALQ-2026-00001).
const CodePrefix = "ALQ"

// MovementApplier is the slice of the stock engine the orchestrator uses.
type MovementApplier interface {
	Apply(ctx context.Context, req stock.Request) (*stock.Movement, error)
}

// CodeGenerator issues order codes.
type CodeGenerator interface {
	Next(ctx context.Context, prefix string) (string, error)
}

// Service orchestrates the rental order lifecycle. Stock side effects of
// confirm and return run through the movement applier inside a single
// transaction per operation, so an order's movements commit or roll back
// as a whole.
type Service struct {
	repo      Repository
	engine    MovementApplier
	codes     CodeGenerator
	txManager tx.Manager
}

// NewService creates a rental order service.
func NewService(repo Repository, engine MovementApplier, codes CodeGenerator, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		engine:    engine,
		codes:     codes,
		txManager: txManager,
	}
}

// Create persists a new draft order. An empty code is auto-generated;
// an explicit code must be unique.
func (s *Service) Create(ctx context.Context, o *Order) (*Order, error) {
	if o == nil {
		return nil, apperror.NewValidation("order is required")
	}
	if o.State == "" {
		o.State = StateDraft
	}
	if o.State != StateDraft {
		return nil, apperror.NewInvalidState(string(o.State), "create")
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	// Code generation is intentionally outside the transaction: a
	// rollback may leave a gap in the sequence, never a duplicate.
	if o.Code == "" {
		code, err := s.codes.Next(ctx, CodePrefix)
		if err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("generate order code: %w", err))
		}
		o.Code = code
	}

	normalizeItems(o.ID, o.Items)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.ExistsByCode(ctx, o.Code)
		if err != nil {
			return err
		}
		if exists {
			return apperror.NewDuplicate("order", "code", o.Code)
		}
		return s.repo.Create(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "rental order created",
		"order_id", o.ID.String(),
		"code", o.Code,
		"items", len(o.Items),
	)
	return o, nil
}

// Get loads an order with its items.
func (s *Service) Get(ctx context.Context, orderID id.ID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("order", orderID.String())
		}
		return nil, err
	}
	return o, nil
}

// GetByCode loads an order by its unique code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Order, error) {
	o, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("order", code)
		}
		return nil, err
	}
	return o, nil
}

// List returns orders matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Order], error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

// ReplaceItems swaps the full item set of a draft order. Confirmed and
// later orders are immutable.
func (s *Service) ReplaceItems(ctx context.Context, orderID id.ID, items []LineItem) (*Order, error) {
	var result *Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		o, err := s.repo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !o.IsDraft() {
			return apperror.NewInvalidState(string(o.State), "replace_items")
		}

		for i := range items {
			if err := items[i].Validate(); err != nil {
				return err
			}
		}
		normalizeItems(o.ID, items)

		if err := s.repo.ReplaceItems(ctx, o.ID, items); err != nil {
			return err
		}

		o.Items = items
		o.Touch()
		if err := s.repo.Update(ctx, o); err != nil {
			return err
		}

		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateDraft updates the editable header fields of a draft order.
func (s *Service) UpdateDraft(ctx context.Context, o *Order) (*Order, error) {
	if o == nil {
		return nil, apperror.NewValidation("order is required")
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	var result *Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, o.ID)
		if err != nil {
			return err
		}
		if !current.IsDraft() {
			return apperror.NewInvalidState(string(current.State), "update")
		}
		if o.Code != current.Code {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule, "order code cannot be changed")
		}

		current.CustomerID = o.CustomerID
		current.EventID = o.EventID
		current.PeriodStart = o.PeriodStart
		current.PeriodEnd = o.PeriodEnd
		current.Notes = o.Notes
		current.Touch()

		if err := s.repo.Update(ctx, current); err != nil {
			return err
		}
		result = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Confirm commits a draft order's stock: one rental-out movement per line
// item, in stored line order, plus the state transition, all in a single
// transaction. Any failed line rolls back the whole confirmation.
func (s *Service) Confirm(ctx context.Context, orderID id.ID) (*Order, error) {
	return s.transition(ctx, orderID, StateConfirmed, "confirm",
		func(ctx context.Context, o *Order) error {
			if len(o.Items) == 0 {
				return apperror.NewEmptyOrder(o.Code)
			}
			return s.applyMovements(ctx, o, stock.KindRentalOut, o.Code)
		})
}

// Return brings all of a confirmed order's stock back and finishes the
// order: one rental-return movement per line item in a single transaction.
func (s *Service) Return(ctx context.Context, orderID id.ID) (*Order, error) {
	return s.transition(ctx, orderID, StateFinished, "return",
		func(ctx context.Context, o *Order) error {
			if len(o.Items) == 0 {
				return apperror.NewEmptyOrder(o.Code)
			}
			return s.applyMovements(ctx, o, stock.KindRentalReturn, "RET-"+o.Code)
		})
}

// Cancel removes a draft order and its items. Orders that have committed
// stock cannot be cancelled; they finish via Return.
func (s *Service) Cancel(ctx context.Context, orderID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		o, err := s.repo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !CanTransition(o.State, StateCancelled) {
			return apperror.NewInvalidState(string(o.State), "cancel")
		}
		return s.repo.Delete(ctx, o.ID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "rental order cancelled", "order_id", orderID.String())
	return nil
}

// transition loads the order, checks the state machine, runs the side
// effects and persists the new state, all inside one transaction.
func (s *Service) transition(
	ctx context.Context,
	orderID id.ID,
	to State,
	operation string,
	sideEffects func(ctx context.Context, o *Order) error,
) (*Order, error) {
	var result *Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		o, err := s.repo.GetByID(ctx, orderID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("order", orderID.String())
			}
			return err
		}
		if !CanTransition(o.State, to) {
			return apperror.NewInvalidState(string(o.State), operation)
		}

		if err := sideEffects(ctx, o); err != nil {
			return err
		}

		o.State = to
		o.Touch()
		if err := s.repo.Update(ctx, o); err != nil {
			return err
		}

		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "rental order state changed",
		"order_id", result.ID.String(),
		"code", result.Code,
		"state", string(result.State),
	)
	return result, nil
}

// applyMovements produces one movement per line item in stored order.
// It runs inside the caller's transaction, so the first failing line
// aborts the whole batch.
func (s *Service) applyMovements(ctx context.Context, o *Order, kind stock.Kind, reference string) error {
	actorID := appctx.ActorID(ctx)
	for i := range o.Items {
		item := &o.Items[i]
		_, err := s.engine.Apply(ctx, stock.Request{
			ProductID: item.ProductID,
			Kind:      kind,
			Quantity:  item.Quantity,
			Reference: reference,
			ActorID:   actorID,
		})
		if err != nil {
			return fmt.Errorf("order %s line %d: %w", o.Code, item.LineNo, err)
		}
	}
	return nil
}

// normalizeItems assigns IDs, the owning order and sequential line
// numbers starting from 1.
func normalizeItems(orderID id.ID, items []LineItem) {
	for i := range items {
		if id.IsNil(items[i].ID) {
			items[i].ID = id.New()
		}
		items[i].OrderID = orderID
		items[i].LineNo = i + 1
	}
}
