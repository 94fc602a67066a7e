package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Spok95/materials-inventory/internal/apperr"
	"github.com/Spok95/materials-inventory/internal/domain/inventory"
	"github.com/Spok95/materials-inventory/internal/domain/materials"
)

// flexInt accepts 7 and "7". null and "" decode to 0.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	s := strings.Trim(string(b), `"`)
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return apperr.Validation("invalid integer %s", b)
	}
	*f = flexInt(n)
	return nil
}

var _ json.Unmarshaler = (*flexInt)(nil)

func parseDecimalField(name, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, apperr.Validation("%s is required", name)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperr.Validation("%s must be numeric", name)
	}
	return d, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid id %q", raw)
	}
	return id, nil
}

type materialJSON struct {
	ID       int64           `json:"id_material"`
	Name     string          `json:"nombre"`
	Qty      decimal.Decimal `json:"metros_disponibles"`
	Price    decimal.Decimal `json:"precio"`
	ImageURL string          `json:"imagen_url"`
	Active   bool            `json:"estado"`
}

func toMaterialJSON(m materials.Material) materialJSON {
	return materialJSON{
		ID:       m.ID,
		Name:     m.Name,
		Qty:      m.AvailableQuantity,
		Price:    m.Price,
		ImageURL: m.ImageURL,
		Active:   m.Active,
	}
}

type movementJSON struct {
	ID           int64           `json:"id_movimiento"`
	MaterialID   int64           `json:"id_material"`
	Type         string          `json:"tipo_movimiento"`
	Qty          decimal.Decimal `json:"cantidad"`
	Date         string          `json:"fecha_movimiento"`
	Note         string          `json:"descripcion"`
	AdminID      int64           `json:"id_Admin"`
	MaterialName *string         `json:"nombre_material"`
	AdminName    *string         `json:"nombre_admin"`
}

func toMovementJSON(e inventory.Entry, loc *time.Location) movementJSON {
	return movementJSON{
		ID:           e.ID,
		MaterialID:   e.MaterialID,
		Type:         string(e.Type),
		Qty:          e.Qty,
		Date:         inventory.FormatTimestamp(e.CreatedAt, loc),
		Note:         e.Note,
		AdminID:      e.ActorID,
		MaterialName: e.MaterialName,
		AdminName:    e.AdminName,
	}
}
