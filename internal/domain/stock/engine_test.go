package stock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentware/internal/core/apperror"
	"rentware/internal/core/id"
	"rentware/internal/domain/catalogs/product"
)

// --- Fakes ---

type fakeProductStore struct {
	products map[id.ID]*product.Product
	updates  int
}

func newFakeProductStore(products ...*product.Product) *fakeProductStore {
	s := &fakeProductStore{products: make(map[id.ID]*product.Product)}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeProductStore) GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error) {
	p, ok := s.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	cp := *p
	return &cp, nil
}

func (s *fakeProductStore) UpdateCounters(ctx context.Context, p *product.Product) error {
	stored, ok := s.products[p.ID]
	if !ok {
		return apperror.NewNotFound("product", p.ID.String())
	}
	stored.OwnedQty = p.OwnedQty
	stored.RentedQty = p.RentedQty
	stored.AvailableQty = p.AvailableQty
	s.updates++
	return nil
}

type fakeLedger struct {
	entries   []Movement
	recordErr error
}

func (l *fakeLedger) Record(ctx context.Context, m *Movement) error {
	if l.recordErr != nil {
		return l.recordErr
	}
	l.entries = append(l.entries, *m)
	return nil
}

func (l *fakeLedger) GetByID(ctx context.Context, movementID id.ID) (*Movement, error) {
	for i := range l.entries {
		if l.entries[i].ID == movementID {
			m := l.entries[i]
			return &m, nil
		}
	}
	return nil, apperror.NewNotFound("movement", movementID.String())
}

func (l *fakeLedger) List(ctx context.Context, filter Filter) ([]Movement, error) {
	out := make([]Movement, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0; i-- {
		m := l.entries[i]
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}
		if filter.Kind != nil && m.Kind != *filter.Kind {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

type fakeWarehouses struct {
	count  int64
	single *id.ID
}

func (w *fakeWarehouses) Count(ctx context.Context) (int64, error) { return w.count, nil }

func (w *fakeWarehouses) SingleIDIfAny(ctx context.Context) (*id.ID, error) {
	return w.single, nil
}

// fakeTxManager restores product and ledger state when the outermost
// transaction function fails, mirroring a database rollback.
type fakeTxManager struct {
	store  *fakeProductStore
	ledger *fakeLedger
	depth  int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(context.Context) error) error {
	m.depth++
	var (
		snap       map[id.ID]product.Product
		entriesLen int
	)
	if m.depth == 1 {
		snap = make(map[id.ID]product.Product, len(m.store.products))
		for k, v := range m.store.products {
			snap[k] = *v
		}
		entriesLen = len(m.ledger.entries)
	}

	err := fn(ctx)
	m.depth--

	if err != nil && m.depth == 0 {
		for k := range snap {
			v := snap[k]
			m.store.products[k] = &v
		}
		m.ledger.entries = m.ledger.entries[:entriesLen]
	}
	return err
}

// --- Helpers ---

func testProduct(owned, rented, available int64) *product.Product {
	p := product.NewProduct("PLT-001", "Dinner plate 27cm", "pc", "plate", "porcelain", id.New())
	p.OwnedQty = owned
	p.RentedQty = rented
	p.AvailableQty = available
	return p
}

type engineEnv struct {
	store      *fakeProductStore
	ledger     *fakeLedger
	warehouses *fakeWarehouses
	engine     *Engine
}

func newEngineEnv(warehouses *fakeWarehouses, products ...*product.Product) *engineEnv {
	store := newFakeProductStore(products...)
	ledger := &fakeLedger{}
	txm := &fakeTxManager{store: store, ledger: ledger}
	return &engineEnv{
		store:      store,
		ledger:     ledger,
		warehouses: warehouses,
		engine:     NewEngine(store, ledger, warehouses, txm),
	}
}

func singleWarehouse() *fakeWarehouses {
	wid := id.New()
	return &fakeWarehouses{count: 1, single: &wid}
}

func (e *engineEnv) counters(t *testing.T, productID id.ID) Counters {
	t.Helper()
	p, ok := e.store.products[productID]
	require.True(t, ok)
	return Counters{Owned: p.OwnedQty, Rented: p.RentedQty, Available: p.AvailableQty}
}

// --- Tests ---

func TestApply_InflowIncreasesOwnedAndAvailable(t *testing.T) {
	p := testProduct(100, 0, 100)
	env := newEngineEnv(singleWarehouse(), p)
	ctx := context.Background()

	mv, err := env.engine.Apply(ctx, Request{
		ProductID: p.ID,
		Kind:      KindInflow,
		Quantity:  20,
		Reference: "PO-123",
	})
	require.NoError(t, err)

	assert.Equal(t, Counters{Owned: 120, Rented: 0, Available: 120}, env.counters(t, p.ID))
	require.Len(t, env.ledger.entries, 1)
	assert.Equal(t, mv.ID, env.ledger.entries[0].ID)
	assert.Equal(t, "PO-123", mv.Reference)
}

func TestApply_RejectsBadInput(t *testing.T) {
	p := testProduct(10, 0, 10)
	env := newEngineEnv(singleWarehouse(), p)
	ctx := context.Background()

	_, err := env.engine.Apply(ctx, Request{ProductID: p.ID, Kind: KindInflow, Quantity: 0})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidQuantity))

	_, err = env.engine.Apply(ctx, Request{ProductID: p.ID, Kind: KindInflow, Quantity: -7})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidQuantity))

	_, err = env.engine.Apply(ctx, Request{ProductID: p.ID, Kind: Kind("teleport"), Quantity: 1})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidMovementKind))

	_, err = env.engine.Apply(ctx, Request{ProductID: id.New(), Kind: KindInflow, Quantity: 1})
	assert.True(t, apperror.IsNotFound(err))

	assert.Empty(t, env.ledger.entries)
	assert.Equal(t, Counters{Owned: 10, Rented: 0, Available: 10}, env.counters(t, p.ID))
}

func TestApply_RentalOutBoundary(t *testing.T) {
	p := testProduct(100, 60, 40)
	env := newEngineEnv(singleWarehouse(), p)
	ctx := context.Background()

	// One over available fails and leaves everything untouched.
	_, err := env.engine.Apply(ctx, Request{ProductID: p.ID, Kind: KindRentalOut, Quantity: 41})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientAvailable))
	assert.Equal(t, Counters{Owned: 100, Rented: 60, Available: 40}, env.counters(t, p.ID))
	assert.Empty(t, env.ledger.entries)

	// Exactly available succeeds and drains to zero.
	_, err = env.engine.Apply(ctx, Request{ProductID: p.ID, Kind: KindRentalOut, Quantity: 40})
	require.NoError(t, err)
	assert.Equal(t, Counters{Owned: 100, Rented: 100, Available: 0}, env.counters(t, p.ID))
}

func TestApply_OutflowAtAvailableDrainsToZero(t *testing.T) {
	p := testProduct(50, 10, 40)
	env := newEngineEnv(singleWarehouse(), p)

	_, err := env.engine.Apply(context.Background(), Request{
		ProductID: p.ID,
		Kind:      KindOutflow,
		Quantity:  40,
	})
	require.NoError(t, err)
	assert.Equal(t, Counters{Owned: 10, Rented: 10, Available: 0}, env.counters(t, p.ID))
}

func TestApply_LedgerFailureRollsBackCounters(t *testing.T) {
	p := testProduct(100, 0, 100)
	env := newEngineEnv(singleWarehouse(), p)
	env.ledger.recordErr = apperror.NewTransient(assert.AnError)

	_, err := env.engine.Apply(context.Background(), Request{
		ProductID: p.ID,
		Kind:      KindInflow,
		Quantity:  20,
	})
	require.Error(t, err)

	assert.Equal(t, Counters{Owned: 100, Rented: 0, Available: 100}, env.counters(t, p.ID))
	assert.Empty(t, env.ledger.entries)
}

func TestApply_WarehouseDefaulting(t *testing.T) {
	t.Run("single warehouse fills both sides", func(t *testing.T) {
		wh := singleWarehouse()
		p := testProduct(10, 0, 10)
		env := newEngineEnv(wh, p)

		mv, err := env.engine.Apply(context.Background(), Request{
			ProductID: p.ID, Kind: KindInflow, Quantity: 5,
		})
		require.NoError(t, err)
		require.NotNil(t, mv.OriginWarehouseID)
		require.NotNil(t, mv.DestWarehouseID)
		assert.Equal(t, *wh.single, *mv.OriginWarehouseID)
		assert.Equal(t, *wh.single, *mv.DestWarehouseID)
	})

	t.Run("no warehouses refuses the movement", func(t *testing.T) {
		p := testProduct(10, 0, 10)
		env := newEngineEnv(&fakeWarehouses{count: 0}, p)

		_, err := env.engine.Apply(context.Background(), Request{
			ProductID: p.ID, Kind: KindInflow, Quantity: 5,
		})
		assert.True(t, apperror.HasCode(err, apperror.CodeNoWarehouseConfigured))
		assert.Equal(t, Counters{Owned: 10, Rented: 0, Available: 10}, env.counters(t, p.ID))
	})

	t.Run("several warehouses leave fields unset", func(t *testing.T) {
		p := testProduct(10, 0, 10)
		env := newEngineEnv(&fakeWarehouses{count: 3}, p)

		mv, err := env.engine.Apply(context.Background(), Request{
			ProductID: p.ID, Kind: KindInflow, Quantity: 5,
		})
		require.NoError(t, err)
		assert.Nil(t, mv.OriginWarehouseID)
		assert.Nil(t, mv.DestWarehouseID)
	})

	t.Run("explicit warehouses are kept as given", func(t *testing.T) {
		p := testProduct(10, 0, 10)
		env := newEngineEnv(&fakeWarehouses{count: 3}, p)
		origin := id.New()

		mv, err := env.engine.Apply(context.Background(), Request{
			ProductID:         p.ID,
			Kind:              KindOutflow,
			Quantity:          5,
			OriginWarehouseID: &origin,
		})
		require.NoError(t, err)
		require.NotNil(t, mv.OriginWarehouseID)
		assert.Equal(t, origin, *mv.OriginWarehouseID)
		assert.Nil(t, mv.DestWarehouseID)
	})
}

// Walks a product through the scenario of a rental weekend: restock,
// rent out, fail an over-ask, rent the rest, take the returns.
func TestApply_EndToEndFlow(t *testing.T) {
	p := testProduct(0, 0, 0)
	env := newEngineEnv(singleWarehouse(), p)
	ctx := context.Background()

	steps := []struct {
		kind Kind
		qty  int64
		want Counters
	}{
		{KindInflow, 100, Counters{Owned: 100, Rented: 0, Available: 100}},
		{KindInflow, 20, Counters{Owned: 120, Rented: 0, Available: 120}},
		{KindRentalOut, 80, Counters{Owned: 120, Rented: 80, Available: 40}},
		{KindRentalOut, 30, Counters{Owned: 120, Rented: 110, Available: 10}},
		{KindRentalReturn, 30, Counters{Owned: 120, Rented: 80, Available: 40}},
		{KindRentalReturn, 80, Counters{Owned: 120, Rented: 0, Available: 120}},
	}
	for _, step := range steps {
		_, err := env.engine.Apply(ctx, Request{ProductID: p.ID, Kind: step.kind, Quantity: step.qty})
		require.NoError(t, err)
		assert.Equal(t, step.want, env.counters(t, p.ID))
	}

	// An over-ask in the middle leaves the trail intact.
	_, err := env.engine.Apply(ctx, Request{ProductID: p.ID, Kind: KindRentalOut, Quantity: 121})
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientAvailable))

	// Replaying the full ledger from zeroed counters reproduces the
	// live counters exactly.
	history, err := env.engine.ListMovements(ctx, Filter{ProductID: &p.ID})
	require.NoError(t, err)
	require.Len(t, history, 6)

	replayed, err := Replay(history)
	require.NoError(t, err)
	assert.Equal(t, env.counters(t, p.ID), replayed)
}

func TestGetMovement(t *testing.T) {
	p := testProduct(10, 0, 10)
	env := newEngineEnv(singleWarehouse(), p)
	ctx := context.Background()

	mv, err := env.engine.Apply(ctx, Request{ProductID: p.ID, Kind: KindInflow, Quantity: 3})
	require.NoError(t, err)

	got, err := env.engine.GetMovement(ctx, mv.ID)
	require.NoError(t, err)
	assert.Equal(t, mv.ID, got.ID)
	assert.Equal(t, KindInflow, got.Kind)

	_, err = env.engine.GetMovement(ctx, id.New())
	assert.True(t, apperror.IsNotFound(err))
}
