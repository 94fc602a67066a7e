package inventory

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Spok95/materials-inventory/internal/apperr"
	"github.com/Spok95/materials-inventory/internal/domain/materials"
	"github.com/Spok95/materials-inventory/internal/infra/metrics"
)

// LowStockNotifier is told about outflows that leave a balance under the
// configured threshold. Calls happen after commit, off the request path.
type LowStockNotifier interface {
	LowStock(ctx context.Context, materialID int64, balance decimal.Decimal)
}

type Ledger struct {
	store     Store
	loc       *time.Location
	now       func() time.Time
	log       *slog.Logger
	metrics   *metrics.Ledger
	tracer    trace.Tracer
	notifier  LowStockNotifier
	threshold decimal.Decimal
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option { return func(l *Ledger) { l.now = now } }

func WithMetrics(m *metrics.Ledger) Option { return func(l *Ledger) { l.metrics = m } }

func WithLowStock(n LowStockNotifier, threshold decimal.Decimal) Option {
	return func(l *Ledger) {
		l.notifier = n
		l.threshold = threshold
	}
}

// NewLedger builds a ledger whose movement timestamps are taken in loc.
func NewLedger(store Store, loc *time.Location, log *slog.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		loc:    loc,
		now:    time.Now,
		log:    log,
		tracer: otel.Tracer("materials-inventory/ledger"),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Ledger) Location() *time.Location { return l.loc }

func validateRequest(req Request) error {
	switch {
	case req.MaterialID <= 0:
		return apperr.Validation("id_material is required")
	case req.Qty.IsZero():
		return apperr.Validation("cantidad is required")
	case req.Qty.IsNegative():
		return apperr.Validation("cantidad must be positive")
	case req.ActorID <= 0:
		return apperr.Validation("id_Admin is required")
	}
	if err := materials.CheckNumeric("cantidad", req.Qty, materials.QuantityScale); err != nil {
		return err
	}
	_, err := ParseMoveType(string(req.Type))
	return err
}

// RecordMovement validates stock, appends a movement and applies it to the
// material balance, all in one transaction. The balance row stays locked from
// the stock check until commit.
func (l *Ledger) RecordMovement(ctx context.Context, req Request) (*Result, error) {
	ctx, span := l.tracer.Start(ctx, "ledger.RecordMovement")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("material.id", req.MaterialID),
		attribute.String("movement.kind", string(req.Type)),
		attribute.String("movement.quantity", req.Qty.String()),
	)

	start := time.Now()
	res, err := l.record(ctx, req)
	outcome := outcomeOf(err)
	l.metrics.Observe(string(req.Type), outcome, time.Since(start))

	if err != nil {
		span.SetStatus(codes.Error, outcome)
		span.RecordError(err)
		if errors.Is(err, apperr.ErrStorage) {
			l.log.Error("record movement failed", "material_id", req.MaterialID, "err", err)
		} else {
			l.log.Info("movement rejected", "material_id", req.MaterialID, "reason", outcome, "err", err)
		}
		return nil, err
	}

	l.log.Info("movement recorded",
		"movement_id", res.Movement.ID,
		"material_id", req.MaterialID,
		"kind", req.Type,
		"qty", req.Qty.String(),
		"balance", res.Balance.String(),
	)
	l.maybeNotifyLow(ctx, res)
	return res, nil
}

func (l *Ledger) record(ctx context.Context, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var res Result
	err := l.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		available, err := tx.LockBalance(ctx, req.MaterialID)
		if err != nil {
			return err
		}
		if req.Type == MoveOut && req.Qty.GreaterThan(available) {
			return &apperr.InsufficientStockError{
				MaterialID: req.MaterialID,
				Requested:  req.Qty,
				Available:  available,
			}
		}
		if req.Type == MoveIn {
			if err := materials.CheckNumeric("metros_disponibles", available.Add(req.Qty), materials.QuantityScale); err != nil {
				return err
			}
		}

		res.Movement = Movement{
			MaterialID: req.MaterialID,
			Type:       req.Type,
			Qty:        req.Qty,
			Note:       req.Note,
			ActorID:    req.ActorID,
			CreatedAt:  l.now().In(l.loc),
		}
		if err := tx.InsertMovement(ctx, &res.Movement); err != nil {
			return err
		}

		res.Balance, err = tx.AdjustBalance(ctx, req.MaterialID, req.Type.Signed(req.Qty))
		return err
	})
	if err != nil {
		return nil, apperr.Storage("record movement", err)
	}
	return &res, nil
}

func (l *Ledger) maybeNotifyLow(ctx context.Context, res *Result) {
	if l.notifier == nil || res.Movement.Type != MoveOut || !res.Balance.LessThan(l.threshold) {
		return
	}
	go l.notifier.LowStock(context.WithoutCancel(ctx), res.Movement.MaterialID, res.Balance)
}

func (l *Ledger) ListMovements(ctx context.Context) ([]Entry, error) {
	return l.store.ListMovements(ctx)
}

func (l *Ledger) History(ctx context.Context, materialID int64) ([]Movement, error) {
	if materialID <= 0 {
		return nil, apperr.Validation("id_material is required")
	}
	return l.store.History(ctx, materialID)
}

func outcomeOf(err error) string {
	var ins *apperr.InsufficientStockError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ins):
		return "insufficient_stock"
	case errors.Is(err, apperr.ErrValidation):
		return "validation"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	default:
		return "storage"
	}
}
