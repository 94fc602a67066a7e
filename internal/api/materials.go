package api

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Spok95/materials-inventory/internal/apperr"
	"github.com/Spok95/materials-inventory/internal/domain/materials"
	"github.com/Spok95/materials-inventory/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type materialBody struct {
	Name     string           `json:"nombre"`
	Qty      *decimal.Decimal `json:"metros_disponibles"`
	Price    *decimal.Decimal `json:"precio"`
	ImageURL *string          `json:"imagen_url"`
}

// readMaterial accepts multipart (with optional "imagen" file) or JSON.
func (h *handler) readMaterial(c *gin.Context) (materials.Fields, error) {
	var f materials.Fields
	if !strings.HasPrefix(c.ContentType(), "multipart/") && c.ContentType() != "application/x-www-form-urlencoded" {
		var body materialBody
		if err := c.ShouldBindJSON(&body); err != nil {
			return f, apperr.Validation("invalid body: %v", err)
		}
		if body.Qty == nil {
			return f, apperr.Validation("metros_disponibles is required")
		}
		if body.Price == nil {
			return f, apperr.Validation("precio is required")
		}
		f.Name, f.AvailableQuantity, f.Price = body.Name, *body.Qty, *body.Price
		if body.ImageURL != nil && *body.ImageURL != "" {
			f.Image = body.ImageURL
		}
		return f, nil
	}

	var err error
	f.Name = c.PostForm("nombre")
	if f.AvailableQuantity, err = parseDecimalField("metros_disponibles", c.PostForm("metros_disponibles")); err != nil {
		return f, err
	}
	if f.Price, err = parseDecimalField("precio", c.PostForm("precio")); err != nil {
		return f, err
	}

	fh, err := c.FormFile("imagen")
	if errors.Is(err, http.ErrMissingFile) {
		return f, nil
	}
	if err != nil {
		return f, apperr.Validation("imagen: %v", err)
	}
	file, err := fh.Open()
	if err != nil {
		return f, apperr.Validation("imagen: %v", err)
	}
	defer func() { _ = file.Close() }()

	url, err := h.images.Save(c.Request.Context(), file)
	if err != nil {
		return f, err
	}
	f.Image = &url
	return f, nil
}

func (h *handler) createMaterial(c *gin.Context) {
	f, err := h.readMaterial(c)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	m, err := h.catalog.Create(c.Request.Context(), f)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toMaterialJSON(*m))
}

func (h *handler) listMaterials(c *gin.Context) {
	ms, err := h.catalog.List(c.Request.Context(), c.Query("activos") == "true")
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	out := make([]materialJSON, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMaterialJSON(m))
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) updateMaterial(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	f, err := h.readMaterial(c)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	m, err := h.catalog.Update(c.Request.Context(), id, f)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Material actualizado correctamente",
		"material": toMaterialJSON(*m),
	})
}

func (h *handler) setMaterialActive(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	var body struct {
		Estado *bool `json:"estado"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Estado == nil {
		writeError(c, h.log, apperr.Validation("estado must be a boolean"))
		return
	}
	if err := h.catalog.SetActive(c.Request.Context(), id, *body.Estado); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Estado del material actualizado correctamente"})
}

func (h *handler) deleteMaterial(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Material y movimientos asociados eliminados correctamente"})
}

func (h *handler) exportMaterials(c *gin.Context) {
	ms, err := h.catalog.List(c.Request.Context(), c.Query("activos") == "true")
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	var buf bytes.Buffer
	if err := report.MaterialsXLSX(&buf, ms); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="materiales.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
