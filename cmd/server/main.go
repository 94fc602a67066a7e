package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/Spok95/materials-inventory/internal/api"
	"github.com/Spok95/materials-inventory/internal/config"
	"github.com/Spok95/materials-inventory/internal/domain/admins"
	"github.com/Spok95/materials-inventory/internal/domain/inventory"
	"github.com/Spok95/materials-inventory/internal/domain/materials"
	"github.com/Spok95/materials-inventory/internal/infra/db"
	httpx "github.com/Spok95/materials-inventory/internal/infra/http"
	"github.com/Spok95/materials-inventory/internal/infra/images"
	"github.com/Spok95/materials-inventory/internal/infra/logger"
	"github.com/Spok95/materials-inventory/internal/infra/metrics"
	"github.com/Spok95/materials-inventory/internal/infra/notify"
	"github.com/Spok95/materials-inventory/internal/infra/telemetry"
)

func main() {
	cfgPath := flag.String("config", "config/example.yaml", "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
	log.Info("graceful shutdown complete")
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Tracing.OTLPEndpoint, cfg.Tracing.ServiceName)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(sctx)
	}()

	if err := db.Migrate(cfg.Postgres.DSN); err != nil {
		return err
	}
	log.Info("migrations applied")

	pool, err := db.Connect(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("db connected")

	loc := cfg.Location()
	matRepo := materials.NewRepo(pool, cfg.Postgres.TxTimeout, cfg.App.PlaceholderImage)
	adminRepo := admins.NewRepo(pool)

	opts := []inventory.Option{}
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		opts = append(opts, inventory.WithMetrics(metrics.NewLedger(prometheus.DefaultRegisterer)))
		metricsHandler = promhttp.Handler()
	}
	if cfg.Telegram.Token != "" {
		tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.AdminChatID, matRepo, log)
		if err != nil {
			log.Warn("telegram disabled", "err", err)
		} else {
			opts = append(opts, inventory.WithLowStock(tg, decimal.NewFromFloat(cfg.Telegram.LowStockThreshold)))
		}
	}
	ledger := inventory.NewLedger(inventory.NewRepo(pool, cfg.Postgres.TxTimeout), loc, log, opts...)

	imgs, err := images.NewStore(cfg.HTTP.UploadsDir, cfg.HTTP.PublicBaseURL)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.Deps{
		Log:         log,
		Catalog:     matRepo,
		Ledger:      ledger,
		Auth:        adminRepo,
		Images:      imgs,
		Location:    loc,
		UploadsDir:  imgs.Dir(),
		Metrics:     metricsHandler,
		ServiceName: cfg.Tracing.ServiceName,
	})

	srv := httpx.New(cfg.HTTP.Addr, router)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr, "timezone", loc.String())

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
