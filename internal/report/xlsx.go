// Package report renders catalog and ledger data as Excel workbooks.
package report

import (
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/materials-inventory/internal/domain/inventory"
	"github.com/Spok95/materials-inventory/internal/domain/materials"
)

func writeSheet(w io.Writer, header []interface{}, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}

func MaterialsXLSX(w io.Writer, ms []materials.Material) error {
	header := []interface{}{"id_material", "nombre", "metros_disponibles", "precio", "imagen_url", "estado"}
	rows := make([][]interface{}, 0, len(ms))
	for _, m := range ms {
		qty, _ := m.AvailableQuantity.Float64()
		price, _ := m.Price.Float64()
		rows = append(rows, []interface{}{m.ID, m.Name, qty, price, m.ImageURL, m.Active})
	}
	return writeSheet(w, header, rows)
}

func MovementsXLSX(w io.Writer, es []inventory.Entry, loc *time.Location) error {
	header := []interface{}{
		"id_movimiento", "fecha_movimiento", "id_material", "nombre_material",
		"tipo_movimiento", "cantidad", "descripcion", "id_Admin", "nombre_admin",
	}
	rows := make([][]interface{}, 0, len(es))
	for _, e := range es {
		qty, _ := e.Qty.Float64()
		rows = append(rows, []interface{}{
			e.ID,
			inventory.FormatTimestamp(e.CreatedAt, loc),
			e.MaterialID,
			deref(e.MaterialName),
			string(e.Type),
			qty,
			e.Note,
			e.ActorID,
			deref(e.AdminName),
		})
	}
	return writeSheet(w, header, rows)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
