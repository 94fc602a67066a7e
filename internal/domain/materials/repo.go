package materials

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Spok95/materials-inventory/internal/apperr"
	"github.com/Spok95/materials-inventory/internal/infra/db"
)

const selectCols = `id, name, available_quantity, price, image_url, active, created_at`

type Repo struct {
	pool        *pgxpool.Pool
	txTimeout   time.Duration
	placeholder string
}

func NewRepo(pool *pgxpool.Pool, txTimeout time.Duration, placeholder string) *Repo {
	return &Repo{pool: pool, txTimeout: txTimeout, placeholder: placeholder}
}

func (r *Repo) scan(row pgx.Row) (*Material, error) {
	var (
		m   Material
		img *string
	)
	if err := row.Scan(&m.ID, &m.Name, &m.AvailableQuantity, &m.Price, &img, &m.Active, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.ImageURL, m.HasImage = resolveImage(img, r.placeholder)
	return &m, nil
}

// resolveImage falls back to placeholder when no image is stored.
func resolveImage(stored *string, placeholder string) (string, bool) {
	if stored == nil || *stored == "" {
		return placeholder, false
	}
	return *stored, true
}

func validate(f Fields) error {
	if strings.TrimSpace(f.Name) == "" {
		return apperr.Validation("nombre is required")
	}
	if err := CheckNumeric("metros_disponibles", f.AvailableQuantity, QuantityScale); err != nil {
		return err
	}
	return CheckNumeric("precio", f.Price, PriceScale)
}

/* Materials CRUD */

func (r *Repo) Create(ctx context.Context, f Fields) (*Material, error) {
	if err := validate(f); err != nil {
		return nil, err
	}
	var out *Material
	err := db.InTx(ctx, r.pool, r.txTimeout, func(ctx context.Context, tx pgx.Tx) error {
		m, err := r.scan(tx.QueryRow(ctx, `
			INSERT INTO materials (name, available_quantity, price, image_url, active)
			VALUES ($1,$2,$3,$4,TRUE)
			RETURNING `+selectCols,
			strings.TrimSpace(f.Name), f.AvailableQuantity, f.Price, f.Image))
		out = m
		return err
	})
	if err != nil {
		return nil, apperr.Storage("create material", err)
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Material, error) {
	m, err := r.scan(r.pool.QueryRow(ctx, `SELECT `+selectCols+` FROM materials WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("material", id)
		}
		return nil, apperr.Storage("get material", err)
	}
	return m, nil
}

// List returns every material, or only active ones. Order is by id for stable
// exports; callers must not rely on it.
func (r *Repo) List(ctx context.Context, onlyActive bool) ([]Material, error) {
	q := `SELECT ` + selectCols + ` FROM materials`
	if onlyActive {
		q += " WHERE active = TRUE"
	}
	q += " ORDER BY id"

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, apperr.Storage("list materials", err)
	}
	defer rows.Close()

	out := []Material{}
	for rows.Next() {
		m, err := r.scan(rows)
		if err != nil {
			return nil, apperr.Storage("scan material", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("list materials", err)
	}
	return out, nil
}

// Update replaces name, quantity and price; the image only when f.Image is set.
func (r *Repo) Update(ctx context.Context, id int64, f Fields) (*Material, error) {
	if err := validate(f); err != nil {
		return nil, err
	}
	var out *Material
	err := db.InTx(ctx, r.pool, r.txTimeout, func(ctx context.Context, tx pgx.Tx) error {
		m, err := r.scan(tx.QueryRow(ctx, `
			UPDATE materials
			SET name = $2, available_quantity = $3, price = $4, image_url = COALESCE($5, image_url)
			WHERE id = $1
			RETURNING `+selectCols,
			id, strings.TrimSpace(f.Name), f.AvailableQuantity, f.Price, f.Image))
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("material", id)
		}
		out = m
		return err
	})
	if err != nil {
		return nil, apperr.Storage("update material", err)
	}
	return out, nil
}

func (r *Repo) SetActive(ctx context.Context, id int64, active bool) error {
	err := db.InTx(ctx, r.pool, r.txTimeout, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE materials SET active = $2 WHERE id = $1`, id, active)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("material", id)
		}
		return nil
	})
	return apperr.Storage("set material active", err)
}

// Delete removes the material together with its movement history. Nothing is
// deleted when the material does not exist.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	err := db.InTx(ctx, r.pool, r.txTimeout, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM movements WHERE material_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("material", id)
		}
		return nil
	})
	return apperr.Storage("delete material", err)
}

/* Balance access inside a caller-owned transaction */

// LockQuantity reads the balance and holds the row lock until tx ends, so
// concurrent movements on the same material are serialised.
func LockQuantity(ctx context.Context, tx pgx.Tx, id int64) (decimal.Decimal, error) {
	var qty decimal.Decimal
	err := tx.QueryRow(ctx, `
		SELECT available_quantity
		FROM materials
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, apperr.NotFound("material", id)
	}
	return qty, err
}

// AdjustQuantity adds delta (negative for outflows) and returns the new balance.
func AdjustQuantity(ctx context.Context, tx pgx.Tx, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	var qty decimal.Decimal
	err := tx.QueryRow(ctx, `
		UPDATE materials
		SET available_quantity = available_quantity + $2
		WHERE id = $1
		RETURNING available_quantity
	`, id, delta).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, apperr.NotFound("material", id)
	}
	return qty, err
}
