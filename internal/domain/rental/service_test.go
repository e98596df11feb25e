package rental

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentware/internal/core/apperror"
	"rentware/internal/core/id"
	"rentware/internal/domain"
	"rentware/internal/domain/stock"
)

// --- Fakes ---

type fakeRepo struct {
	orders map[id.ID]*Order
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[id.ID]*Order)}
}

func cloneOrder(o *Order) *Order {
	cp := *o
	cp.Items = make([]LineItem, len(o.Items))
	copy(cp.Items, o.Items)
	return &cp
}

func (r *fakeRepo) Create(ctx context.Context, o *Order) error {
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return nil, apperror.NewNotFound("order", orderID.String())
	}
	return cloneOrder(o), nil
}

func (r *fakeRepo) GetByCode(ctx context.Context, code string) (*Order, error) {
	for _, o := range r.orders {
		if o.Code == code {
			return cloneOrder(o), nil
		}
	}
	return nil, apperror.NewNotFound("order", code)
}

func (r *fakeRepo) Update(ctx context.Context, o *Order) error {
	stored, ok := r.orders[o.ID]
	if !ok {
		return apperror.NewNotFound("order", o.ID.String())
	}
	items := stored.Items
	r.orders[o.ID] = cloneOrder(o)
	if len(o.Items) == 0 {
		r.orders[o.ID].Items = items
	}
	return nil
}

func (r *fakeRepo) ReplaceItems(ctx context.Context, orderID id.ID, items []LineItem) error {
	o, ok := r.orders[orderID]
	if !ok {
		return apperror.NewNotFound("order", orderID.String())
	}
	o.Items = make([]LineItem, len(items))
	copy(o.Items, items)
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, orderID id.ID) error {
	delete(r.orders, orderID)
	return nil
}

func (r *fakeRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	for _, o := range r.orders {
		if o.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Order], error) {
	result := domain.ListResult[*Order]{Limit: filter.Limit, Offset: filter.Offset}
	for _, o := range r.orders {
		if filter.State != nil && o.State != *filter.State {
			continue
		}
		result.Items = append(result.Items, cloneOrder(o))
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *fakeRepo) snapshot() map[id.ID]*Order {
	snap := make(map[id.ID]*Order, len(r.orders))
	for k, v := range r.orders {
		snap[k] = cloneOrder(v)
	}
	return snap
}

type fakeEngine struct {
	applied  []stock.Request
	failWith map[id.ID]error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{failWith: make(map[id.ID]error)}
}

func (e *fakeEngine) Apply(ctx context.Context, req stock.Request) (*stock.Movement, error) {
	if err, ok := e.failWith[req.ProductID]; ok {
		return nil, err
	}
	e.applied = append(e.applied, req)
	return stock.NewMovement(req.ProductID, req.Kind, req.Quantity, req.Reference), nil
}

type fakeCodes struct {
	n int
}

func (c *fakeCodes) Next(ctx context.Context, prefix string) (string, error) {
	c.n++
	return fmt.Sprintf("%s-2026-%05d", prefix, c.n), nil
}

// fakeTxManager restores repo and engine state when the outermost
// transaction function returns an error, mirroring a database rollback.
type fakeTxManager struct {
	repo   *fakeRepo
	engine *fakeEngine
	depth  int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(context.Context) error) error {
	m.depth++
	var (
		ordersSnap map[id.ID]*Order
		appliedLen int
	)
	if m.depth == 1 {
		ordersSnap = m.repo.snapshot()
		appliedLen = len(m.engine.applied)
	}

	err := fn(ctx)
	m.depth--

	if err != nil && m.depth == 0 {
		m.repo.orders = ordersSnap
		m.engine.applied = m.engine.applied[:appliedLen]
	}
	return err
}

type testEnv struct {
	repo   *fakeRepo
	engine *fakeEngine
	codes  *fakeCodes
	svc    *Service
}

func newTestEnv() *testEnv {
	repo := newFakeRepo()
	engine := newFakeEngine()
	codes := &fakeCodes{}
	txm := &fakeTxManager{repo: repo, engine: engine}
	return &testEnv{
		repo:   repo,
		engine: engine,
		codes:  codes,
		svc:    NewService(repo, engine, codes, txm),
	}
}

func draftOrder(items ...LineItem) *Order {
	o := NewOrder(id.New(), time.Now(), time.Now().Add(48*time.Hour))
	o.Items = items
	return o
}

func item(productID id.ID, qty int64) LineItem {
	return LineItem{ProductID: productID, Quantity: qty}
}

// --- Tests ---

func TestCreate_GeneratesCodeAndNumbersLines(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	p1, p2 := id.New(), id.New()
	created, err := env.svc.Create(ctx, draftOrder(item(p1, 10), item(p2, 4)))
	require.NoError(t, err)

	assert.Equal(t, "ALQ-2026-00001", created.Code)
	assert.Equal(t, StateDraft, created.State)
	require.Len(t, created.Items, 2)
	assert.Equal(t, 1, created.Items[0].LineNo)
	assert.Equal(t, 2, created.Items[1].LineNo)
	assert.Equal(t, created.ID, created.Items[0].OrderID)

	second, err := env.svc.Create(ctx, draftOrder())
	require.NoError(t, err)
	assert.Equal(t, "ALQ-2026-00002", second.Code)
}

func TestCreate_DuplicateCode(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	first := draftOrder()
	first.Code = "ALQ-2026-00099"
	_, err := env.svc.Create(ctx, first)
	require.NoError(t, err)

	dup := draftOrder()
	dup.Code = "ALQ-2026-00099"
	_, err = env.svc.Create(ctx, dup)
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
}

func TestCreate_RejectsNonDraftState(t *testing.T) {
	env := newTestEnv()

	o := draftOrder()
	o.State = StateConfirmed
	_, err := env.svc.Create(context.Background(), o)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidState))
}

func TestCreate_RejectsBadQuantity(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Create(context.Background(), draftOrder(item(id.New(), 0)))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidQuantity))

	_, err = env.svc.Create(context.Background(), draftOrder(item(id.New(), -3)))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidQuantity))
}

func TestConfirm_AppliesMovementsInLineOrder(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	p1, p2, p3 := id.New(), id.New(), id.New()
	created, err := env.svc.Create(ctx, draftOrder(item(p1, 5), item(p2, 2), item(p3, 7)))
	require.NoError(t, err)

	confirmed, err := env.svc.Confirm(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, confirmed.State)

	require.Len(t, env.engine.applied, 3)
	for i, want := range []id.ID{p1, p2, p3} {
		req := env.engine.applied[i]
		assert.Equal(t, want, req.ProductID)
		assert.Equal(t, stock.KindRentalOut, req.Kind)
		assert.Equal(t, created.Code, req.Reference)
	}

	stored, err := env.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, stored.State)
}

func TestConfirm_EmptyOrder(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Create(ctx, draftOrder())
	require.NoError(t, err)

	_, err = env.svc.Confirm(ctx, created.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeEmptyOrder))

	stored, err := env.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StateDraft, stored.State)
}

func TestConfirm_SecondLineFailureRollsBackWholeOrder(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	p1, p2 := id.New(), id.New()
	created, err := env.svc.Create(ctx, draftOrder(item(p1, 5), item(p2, 100)))
	require.NoError(t, err)

	env.engine.failWith[p2] = apperror.NewInsufficientAvailable(p2.String(), 100, 3)

	_, err = env.svc.Confirm(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientAvailable))

	// The first line's movement must be rolled back with the rest.
	assert.Empty(t, env.engine.applied)

	stored, err := env.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StateDraft, stored.State)
}

func TestConfirm_OnlyFromDraft(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Create(ctx, draftOrder(item(id.New(), 1)))
	require.NoError(t, err)
	_, err = env.svc.Confirm(ctx, created.ID)
	require.NoError(t, err)

	// Confirming twice must fail.
	_, err = env.svc.Confirm(ctx, created.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidState))
}

func TestReturn_FinishesAndReversesStock(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	p1, p2 := id.New(), id.New()
	created, err := env.svc.Create(ctx, draftOrder(item(p1, 5), item(p2, 2)))
	require.NoError(t, err)
	_, err = env.svc.Confirm(ctx, created.ID)
	require.NoError(t, err)

	finished, err := env.svc.Return(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StateFinished, finished.State)

	require.Len(t, env.engine.applied, 4)
	for _, req := range env.engine.applied[2:] {
		assert.Equal(t, stock.KindRentalReturn, req.Kind)
		assert.Equal(t, "RET-"+created.Code, req.Reference)
	}
}

func TestReturn_OnlyFromConfirmed(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Create(ctx, draftOrder(item(id.New(), 1)))
	require.NoError(t, err)

	_, err = env.svc.Return(ctx, created.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidState))

	_, err = env.svc.Confirm(ctx, created.ID)
	require.NoError(t, err)
	_, err = env.svc.Return(ctx, created.ID)
	require.NoError(t, err)

	// Returning a finished order must fail.
	_, err = env.svc.Return(ctx, created.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidState))
}

func TestReturn_EmptyOrder(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Create(ctx, draftOrder())
	require.NoError(t, err)

	// An empty order can never be confirmed through the service, so
	// stage the state directly to cover the guard on the return path.
	env.repo.orders[created.ID].State = StateConfirmed

	_, err = env.svc.Return(ctx, created.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeEmptyOrder))
	assert.Empty(t, env.engine.applied)

	stored, err := env.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, stored.State)
}

func TestCancel_DraftDeletesOrderAndItems(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Create(ctx, draftOrder(item(id.New(), 3)))
	require.NoError(t, err)

	require.NoError(t, env.svc.Cancel(ctx, created.ID))

	_, err = env.svc.Get(ctx, created.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, env.engine.applied)
}

func TestCancel_ConfirmedFails(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Create(ctx, draftOrder(item(id.New(), 1)))
	require.NoError(t, err)
	_, err = env.svc.Confirm(ctx, created.ID)
	require.NoError(t, err)

	err = env.svc.Cancel(ctx, created.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidState))

	stored, err := env.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, stored.State)
}

func TestReplaceItems_DraftOnly(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Create(ctx, draftOrder(item(id.New(), 3)))
	require.NoError(t, err)

	p1, p2 := id.New(), id.New()
	updated, err := env.svc.ReplaceItems(ctx, created.ID, []LineItem{item(p2, 8), item(p1, 1)})
	require.NoError(t, err)
	require.Len(t, updated.Items, 2)
	assert.Equal(t, p2, updated.Items[0].ProductID)
	assert.Equal(t, 1, updated.Items[0].LineNo)
	assert.Equal(t, 2, updated.Items[1].LineNo)

	_, err = env.svc.Confirm(ctx, created.ID)
	require.NoError(t, err)

	_, err = env.svc.ReplaceItems(ctx, created.ID, []LineItem{item(p1, 1)})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidState))
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		from State
		to   State
		want bool
	}{
		{StateDraft, StateConfirmed, true},
		{StateDraft, StateCancelled, true},
		{StateDraft, StateFinished, false},
		{StateConfirmed, StateFinished, true},
		{StateConfirmed, StateCancelled, false},
		{StateConfirmed, StateDraft, false},
		{StateFinished, StateConfirmed, false},
		{StateCancelled, StateDraft, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_to_%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}

	assert.True(t, StateFinished.IsTerminal())
	assert.True(t, StateCancelled.IsTerminal())
	assert.False(t, StateDraft.IsTerminal())
}
