// Package pgtest provisions an isolated, migrated Postgres schema for
// integration tests. Tests are skipped unless INVENTORY_TEST_DSN is set.
package pgtest

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/materials-inventory/internal/infra/db"
)

const EnvDSN = "INVENTORY_TEST_DSN"

// Pool recreates schema, applies migrations into it and returns a pool whose
// search_path points at it. Each package should pass its own schema name so
// packages can run concurrently.
func Pool(t *testing.T, schema string) *pgxpool.Pool {
	t.Helper()
	base := os.Getenv(EnvDSN)
	if base == "" {
		t.Skipf("%s not set", EnvDSN)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, err := db.Connect(ctx, base, 2)
	require.NoError(t, err)
	ident := pgx.Identifier{schema}.Sanitize()
	_, err = admin.Exec(ctx, fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE; CREATE SCHEMA %s", ident, ident))
	admin.Close()
	require.NoError(t, err)

	dsn := withSearchPath(base, schema)
	require.NoError(t, db.Migrate(dsn))

	pool, err := db.Connect(ctx, dsn, 10)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

// Reset empties every table and restarts identities.
func Reset(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`TRUNCATE movements, materials, admins RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}

func withSearchPath(dsn, schema string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		q.Set("search_path", schema)
		u.RawQuery = q.Encode()
		return u.String()
	}
	return dsn + " search_path=" + schema
}
