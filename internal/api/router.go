package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type Deps struct {
	Log     *slog.Logger
	Catalog Catalog
	Ledger  Ledger
	Auth    Authenticator
	Images  ImageSaver
	// Location is the zone movement timestamps are rendered in.
	Location *time.Location
	// UploadsDir is served at /uploads when set.
	UploadsDir string
	// Metrics is served at /metrics when set.
	Metrics http.Handler
	// ServiceName enables otelgin spans when set.
	ServiceName string
}

type handler struct {
	log     *slog.Logger
	catalog Catalog
	ledger  Ledger
	auth    Authenticator
	images  ImageSaver
	loc     *time.Location
}

func NewRouter(d Deps) *gin.Engine {
	h := &handler{
		log:     d.Log,
		catalog: d.Catalog,
		ledger:  d.Ledger,
		auth:    d.Auth,
		images:  d.Images,
		loc:     d.Location,
	}
	if h.loc == nil {
		h.loc = time.UTC
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(d.Log), corsPolicy())
	if d.ServiceName != "" {
		r.Use(otelgin.Middleware(d.ServiceName))
	}

	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "OK") })
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics))
	}
	if d.UploadsDir != "" {
		r.Static("/uploads", d.UploadsDir)
	}

	r.POST("/login", h.login)

	api := r.Group("/api")
	api.POST("/materiales", h.createMaterial)
	api.GET("/materiales", h.listMaterials)
	api.GET("/materiales/export", h.exportMaterials)
	api.GET("/materiales/:id/movimientos", h.materialHistory)
	api.PUT("/materiales/:id", h.updateMaterial)
	api.PUT("/materiales/:id/estado", h.setMaterialActive)
	api.DELETE("/materiales/:id", h.deleteMaterial)

	api.GET("/movimientos", h.listMovements)
	api.GET("/movimientos/export", h.exportMovements)
	api.POST("/movimientos", h.recordMovement)

	return r
}
