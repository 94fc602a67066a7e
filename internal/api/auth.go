package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Spok95/materials-inventory/internal/apperr"
)

type loginBody struct {
	Username string `json:"Usuario"`
	Password string `json:"contraseña"`
}

func (h *handler) login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, h.log, apperr.Validation("Usuario y contraseña son obligatorios"))
		return
	}
	a, err := h.auth.Authenticate(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login exitoso",
		"user":    gin.H{"id_Admin": a.ID, "Usuario": a.Username},
	})
}
