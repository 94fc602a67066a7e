package inventory

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Spok95/materials-inventory/internal/apperr"
)

// memStore mimics Postgres row locking: LockBalance holds a per-material lock
// until the transaction ends, writes are staged and published on commit.
// Nothing else serialises transactions, so a ledger that skipped LockBalance
// would lose updates here too.
type memStore struct {
	mu        sync.Mutex
	balances  map[int64]decimal.Decimal
	rows      map[int64]*sync.Mutex
	names     map[int64]string
	admins    map[int64]string
	movements []Movement
	nextID    int64

	failInsert error
	failAdjust error
}

func newMemStore() *memStore {
	return &memStore{
		balances: map[int64]decimal.Decimal{},
		rows:     map[int64]*sync.Mutex{},
		names:    map[int64]string{},
		admins:   map[int64]string{},
	}
}

func (s *memStore) addMaterial(id int64, name string, qty string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[id] = decimal.RequireFromString(qty)
	s.rows[id] = &sync.Mutex{}
	s.names[id] = name
}

func (s *memStore) balance(id int64) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[id]
}

func (s *memStore) movementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

func (s *memStore) committed(id int64) (decimal.Decimal, *sync.Mutex, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.balances[id]
	return b, s.rows[id], ok
}

type memTx struct {
	s         *memStore
	held      []*sync.Mutex
	balances  map[int64]decimal.Decimal
	movements []Movement
}

func (t *memTx) LockBalance(_ context.Context, id int64) (decimal.Decimal, error) {
	if b, ok := t.balances[id]; ok {
		return b, nil
	}
	_, row, ok := t.s.committed(id)
	if !ok {
		return decimal.Zero, apperr.NotFound("material", id)
	}
	row.Lock()
	t.held = append(t.held, row)

	// Re-read under the row lock; another tx may have committed meanwhile.
	b, _, _ := t.s.committed(id)
	t.balances[id] = b
	runtime.Gosched()
	return b, nil
}

func (t *memTx) InsertMovement(_ context.Context, m *Movement) error {
	if t.s.failInsert != nil {
		return t.s.failInsert
	}
	t.s.mu.Lock()
	t.s.nextID++
	m.ID = t.s.nextID
	t.s.mu.Unlock()
	t.movements = append(t.movements, *m)
	return nil
}

// AdjustBalance works on the staged value, or on the committed one when the
// row was never locked in this tx.
func (t *memTx) AdjustBalance(_ context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	if t.s.failAdjust != nil {
		return decimal.Zero, t.s.failAdjust
	}
	b, ok := t.balances[id]
	if !ok {
		if b, _, ok = t.s.committed(id); !ok {
			return decimal.Zero, apperr.NotFound("material", id)
		}
	}
	t.balances[id] = b.Add(delta)
	return t.balances[id], nil
}

func (t *memTx) release() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.held[i].Unlock()
	}
}

func (s *memStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	tx := &memTx{s: s, balances: map[int64]decimal.Decimal{}}
	defer tx.release()

	if err := fn(ctx, tx); err != nil {
		return apperr.Storage("tx", err)
	}
	if err := ctx.Err(); err != nil {
		return apperr.Storage("commit tx", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, b := range tx.balances {
		s.balances[id] = b
	}
	s.movements = append(s.movements, tx.movements...)
	return nil
}

func (s *memStore) ListMovements(context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, len(s.movements))
	for _, m := range s.movements {
		e := Entry{Movement: m}
		if n, ok := s.names[m.MaterialID]; ok {
			e.MaterialName = &n
		}
		if n, ok := s.admins[m.ActorID]; ok {
			e.AdminName = &n
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *memStore) History(_ context.Context, materialID int64) ([]Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Movement
	for _, m := range s.movements {
		if m.MaterialID == materialID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var errBoom = errors.New("boom")

