package inventory

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Spok95/materials-inventory/internal/apperr"
	"github.com/Spok95/materials-inventory/internal/domain/materials"
	"github.com/Spok95/materials-inventory/internal/infra/db"
)

// Tx is the slice of the store a movement transaction may touch.
type Tx interface {
	LockBalance(ctx context.Context, materialID int64) (decimal.Decimal, error)
	InsertMovement(ctx context.Context, m *Movement) error
	AdjustBalance(ctx context.Context, materialID int64, delta decimal.Decimal) (decimal.Decimal, error)
}

type Store interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	ListMovements(ctx context.Context) ([]Entry, error)
	History(ctx context.Context, materialID int64) ([]Movement, error)
}

type Repo struct {
	pool      *pgxpool.Pool
	txTimeout time.Duration
}

func NewRepo(pool *pgxpool.Pool, txTimeout time.Duration) *Repo {
	return &Repo{pool: pool, txTimeout: txTimeout}
}

type pgTx struct{ tx pgx.Tx }

func (t pgTx) LockBalance(ctx context.Context, materialID int64) (decimal.Decimal, error) {
	return materials.LockQuantity(ctx, t.tx, materialID)
}

func (t pgTx) AdjustBalance(ctx context.Context, materialID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	return materials.AdjustQuantity(ctx, t.tx, materialID, delta)
}

func (t pgTx) InsertMovement(ctx context.Context, m *Movement) error {
	return t.tx.QueryRow(ctx, `
		INSERT INTO movements (material_id, kind, quantity, description, admin_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, m.MaterialID, string(m.Type), m.Qty, m.Note, m.ActorID, m.CreatedAt).Scan(&m.ID)
}

func (r *Repo) InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return db.InTx(ctx, r.pool, r.txTimeout, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, pgTx{tx: tx})
	})
}

// ListMovements returns every movement, newest first, with material and admin
// names left-joined.
func (r *Repo) ListMovements(ctx context.Context) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT mv.id, mv.material_id, mv.kind, mv.quantity, mv.description, mv.admin_id, mv.created_at,
		       m.name, a.username
		FROM movements mv
		LEFT JOIN materials m ON m.id = mv.material_id
		LEFT JOIN admins a ON a.id = mv.admin_id
		ORDER BY mv.created_at DESC, mv.id DESC
	`)
	if err != nil {
		return nil, apperr.Storage("list movements", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID,
			&e.MaterialID,
			&e.Type,
			&e.Qty,
			&e.Note,
			&e.ActorID,
			&e.CreatedAt,
			&e.MaterialName,
			&e.AdminName,
		); err != nil {
			return nil, apperr.Storage("scan movement", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("list movements", err)
	}
	return out, nil
}

// History returns the movements of one material in the order they were applied.
func (r *Repo) History(ctx context.Context, materialID int64) ([]Movement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, material_id, kind, quantity, description, admin_id, created_at
		FROM movements
		WHERE material_id = $1
		ORDER BY id
	`, materialID)
	if err != nil {
		return nil, apperr.Storage("movement history", err)
	}
	defer rows.Close()

	out := []Movement{}
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.MaterialID, &m.Type, &m.Qty, &m.Note, &m.ActorID, &m.CreatedAt); err != nil {
			return nil, apperr.Storage("scan movement", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("movement history", err)
	}
	return out, nil
}
