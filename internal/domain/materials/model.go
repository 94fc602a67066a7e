package materials

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Spok95/materials-inventory/internal/apperr"
)

// Scales of the NUMERIC(14, s) columns: quantities (materials and movements)
// and price.
const (
	numericPrecision = 14
	QuantityScale    = 3
	PriceScale       = 2
)

type Material struct {
	ID                int64
	Name              string
	AvailableQuantity decimal.Decimal
	Price             decimal.Decimal
	// ImageURL is the stored reference, or the placeholder when none is stored.
	ImageURL  string
	HasImage  bool
	Active    bool
	CreatedAt time.Time
}

// Fields are the caller-supplied mutable fields. A nil Image leaves the stored
// reference untouched on update.
type Fields struct {
	Name              string
	AvailableQuantity decimal.Decimal
	Price             decimal.Decimal
	Image             *string
}

// CheckNumeric rejects values Postgres would round or overflow when storing
// them in a NUMERIC(14, scale) column.
func CheckNumeric(field string, d decimal.Decimal, scale int32) error {
	if !d.Equal(d.Truncate(scale)) {
		return apperr.Validation("%s allows at most %d decimal places", field, scale)
	}
	if d.Abs().GreaterThanOrEqual(decimal.New(1, numericPrecision-scale)) {
		return apperr.Validation("%s is too large", field)
	}
	return nil
}
