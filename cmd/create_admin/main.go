// Command create_admin inserts an administrator with a bcrypt-hashed password.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Spok95/materials-inventory/internal/config"
	"github.com/Spok95/materials-inventory/internal/domain/admins"
	"github.com/Spok95/materials-inventory/internal/infra/db"
	"github.com/Spok95/materials-inventory/internal/infra/logger"
)

func main() {
	cfgPath := flag.String("config", "config/example.yaml", "path to YAML config")
	username := flag.String("username", "", "admin username")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: create_admin -username NAME -password SECRET [-config PATH]")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.App.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Migrate(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}
	pool, err := db.Connect(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	a, err := admins.NewRepo(pool).Create(ctx, *username, *password)
	if err != nil {
		log.Error("create admin failed", "username", *username, "err", err)
		pool.Close()
		os.Exit(1)
	}
	log.Info("admin created", "id", a.ID, "username", a.Username)
}
