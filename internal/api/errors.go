package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Spok95/materials-inventory/internal/apperr"
	"github.com/Spok95/materials-inventory/internal/domain/admins"
)

// writeError maps a domain error onto a status code. Storage details are
// logged and never sent to the client.
func writeError(c *gin.Context, log *slog.Logger, err error) {
	var ins *apperr.InsufficientStockError
	switch {
	case errors.As(err, &ins):
		c.JSON(http.StatusConflict, gin.H{
			"error":      fmt.Sprintf("Stock insuficiente. Disponible: %s metros.", ins.Available.String()),
			"disponible": ins.Available,
		})
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Material no encontrado"})
	case errors.Is(err, admins.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciales incorrectas"})
	default:
		log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error en el servidor"})
	}
}
