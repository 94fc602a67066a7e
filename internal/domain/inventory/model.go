package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Spok95/materials-inventory/internal/apperr"
)

type MoveType string

const (
	MoveIn  MoveType = "entrada"
	MoveOut MoveType = "salida"
)

// TimestampLayout is the wire format of movement timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

func ParseMoveType(s string) (MoveType, error) {
	switch MoveType(s) {
	case MoveIn, MoveOut:
		return MoveType(s), nil
	case "":
		return "", apperr.Validation("tipo_movimiento is required")
	}
	return "", apperr.Validation("tipo_movimiento must be %q or %q, got %q", MoveIn, MoveOut, s)
}

// Signed returns qty as a balance delta for this movement type.
func (t MoveType) Signed(qty decimal.Decimal) decimal.Decimal {
	if t == MoveOut {
		return qty.Neg()
	}
	return qty
}

type Movement struct {
	ID         int64
	MaterialID int64
	Type       MoveType
	Qty        decimal.Decimal
	Note       string
	ActorID    int64
	CreatedAt  time.Time
}

// Entry is a movement joined with the names of what it references. Names are
// nil when the referenced row no longer exists.
type Entry struct {
	Movement
	MaterialName *string
	AdminName    *string
}

// Request is the input of Ledger.RecordMovement. Zero values mean "missing".
type Request struct {
	MaterialID int64
	Type       MoveType
	Qty        decimal.Decimal
	Note       string
	ActorID    int64
}

type Result struct {
	Movement Movement
	Balance  decimal.Decimal
}

// Reconcile replays movements over an initial balance.
func Reconcile(initial decimal.Decimal, moves []Movement) decimal.Decimal {
	bal := initial
	for _, m := range moves {
		bal = bal.Add(m.Type.Signed(m.Qty))
	}
	return bal
}

func FormatTimestamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(TimestampLayout)
}
