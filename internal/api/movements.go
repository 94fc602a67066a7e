package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Spok95/materials-inventory/internal/apperr"
	"github.com/Spok95/materials-inventory/internal/domain/inventory"
	"github.com/Spok95/materials-inventory/internal/report"
)

type movementBody struct {
	MaterialID flexInt          `json:"id_material"`
	Type       string           `json:"tipo_movimiento"`
	Qty        *decimal.Decimal `json:"cantidad"`
	Note       string           `json:"descripcion"`
	AdminID    flexInt          `json:"id_Admin"`
}

func (h *handler) recordMovement(c *gin.Context) {
	var body movementBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, h.log, apperr.Validation("invalid body: %v", err))
		return
	}
	req := inventory.Request{
		MaterialID: int64(body.MaterialID),
		Type:       inventory.MoveType(body.Type),
		Note:       body.Note,
		ActorID:    int64(body.AdminID),
	}
	if body.Qty != nil {
		req.Qty = *body.Qty
	}

	res, err := h.ledger.RecordMovement(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":            "Movimiento registrado correctamente",
		"movimiento":         toMovementJSON(inventory.Entry{Movement: res.Movement}, h.loc),
		"metros_disponibles": res.Balance,
	})
}

func (h *handler) listMovements(c *gin.Context) {
	es, err := h.ledger.ListMovements(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	out := make([]movementJSON, 0, len(es))
	for _, e := range es {
		out = append(out, toMovementJSON(e, h.loc))
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) materialHistory(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	ms, err := h.ledger.History(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	out := make([]movementJSON, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMovementJSON(inventory.Entry{Movement: m}, h.loc))
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) exportMovements(c *gin.Context) {
	es, err := h.ledger.ListMovements(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	var buf bytes.Buffer
	if err := report.MovementsXLSX(&buf, es, h.loc); err != nil {
		writeError(c, h.log, err)
		return
	}
	name := fmt.Sprintf("movimientos_%s.xlsx", time.Now().In(h.loc).Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
