// Package apperr defines the error kinds shared by the catalog, the ledger
// and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
)

// InsufficientStockError is returned when an outflow exceeds the balance.
type InsufficientStockError struct {
	MaterialID int64
	Requested  decimal.Decimal
	Available  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available %s", e.Available.String())
}

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFound(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}

// Storage classifies err as a storage failure unless it already carries one
// of the domain kinds.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomain(err) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// IsDomain reports whether err is one of the classified kinds.
func IsDomain(err error) bool {
	var ins *InsufficientStockError
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrStorage) ||
		errors.As(err, &ins)
}
