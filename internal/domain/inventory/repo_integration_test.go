package inventory_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/materials-inventory/internal/apperr"
	"github.com/Spok95/materials-inventory/internal/domain/admins"
	"github.com/Spok95/materials-inventory/internal/domain/inventory"
	"github.com/Spok95/materials-inventory/internal/domain/materials"
	"github.com/Spok95/materials-inventory/internal/pgtest"
)

type pgFixture struct {
	ledger *inventory.Ledger
	mats   *materials.Repo
	admins *admins.Repo
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	pool := pgtest.Pool(t, "it_inventory")
	pgtest.Reset(t, pool)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &pgFixture{
		ledger: inventory.NewLedger(inventory.NewRepo(pool, 5*time.Second), time.UTC, log),
		mats:   materials.NewRepo(pool, 5*time.Second, ""),
		admins: admins.NewRepo(pool),
	}
}

func (f *pgFixture) material(t *testing.T, qty string) int64 {
	t.Helper()
	m, err := f.mats.Create(context.Background(), materials.Fields{
		Name:              "Tela",
		AvailableQuantity: decimal.RequireFromString(qty),
		Price:             decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	return m.ID
}

func TestPG_ConcurrentOutflowsNeverOverdraw(t *testing.T) {
	f := newPGFixture(t)
	id := f.material(t, "10")

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.RecordMovement(context.Background(), inventory.Request{
				MaterialID: id, Type: inventory.MoveOut, Qty: decimal.NewFromInt(3), ActorID: 1,
			})
			var ins *apperr.InsufficientStockError
			if err != nil && !errors.As(err, &ins) {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, successes)
	m, err := f.mats.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, m.AvailableQuantity.Equal(decimal.NewFromInt(1)), m.AvailableQuantity.String())

	hist, err := f.ledger.History(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, hist, successes)
	assert.True(t, inventory.Reconcile(decimal.NewFromInt(10), hist).Equal(m.AvailableQuantity))
}

func TestPG_ListMovementsJoinsNames(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	id := f.material(t, "0")
	admin, err := f.admins.Create(ctx, "ana", "secreto")
	require.NoError(t, err)

	_, err = f.ledger.RecordMovement(ctx, inventory.Request{
		MaterialID: id, Type: inventory.MoveIn, Qty: decimal.NewFromInt(5), ActorID: admin.ID,
	})
	require.NoError(t, err)
	_, err = f.ledger.RecordMovement(ctx, inventory.Request{
		MaterialID: id, Type: inventory.MoveOut, Qty: decimal.NewFromInt(2), ActorID: 999,
	})
	require.NoError(t, err)

	es, err := f.ledger.ListMovements(ctx)
	require.NoError(t, err)
	require.Len(t, es, 2)

	assert.Equal(t, inventory.MoveOut, es[0].Type)
	require.NotNil(t, es[0].MaterialName)
	assert.Equal(t, "Tela", *es[0].MaterialName)
	assert.Nil(t, es[0].AdminName)

	require.NotNil(t, es[1].AdminName)
	assert.Equal(t, "ana", *es[1].AdminName)
}

func TestPG_UnknownMaterialWritesNothing(t *testing.T) {
	f := newPGFixture(t)
	_, err := f.ledger.RecordMovement(context.Background(), inventory.Request{
		MaterialID: 12345, Type: inventory.MoveIn, Qty: decimal.NewFromInt(1), ActorID: 1,
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	es, err := f.ledger.ListMovements(context.Background())
	require.NoError(t, err)
	assert.Empty(t, es)
}
