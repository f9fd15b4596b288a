//go:build integration_pg

// Package pgtest starts a throwaway Postgres with the schema applied
package pgtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"insightbff/internal/platform/logger"
	"insightbff/internal/platform/store"
	"insightbff/internal/platform/store/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Start runs postgres:16-alpine and returns its DSN; the container stops on cleanup
func Start(t *testing.T) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "postgres",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, port.Port())
}

// Migrated starts postgres, applies the embedded schema and returns a pool
func Migrated(t *testing.T) (*pgxpool.Pool, string) {
	t.Helper()

	dsn := Start(t)
	if _, err := migrate.Up(dsn, *logger.Nop()); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool, dsn
}

// Store starts a migrated postgres and opens it through the store facade, so repos
// run against the same adapter as in production
func Store(t *testing.T) store.TxRunner {
	t.Helper()

	dsn := Start(t)
	if _, err := migrate.Up(dsn, *logger.Nop()); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	st, err := store.Open(context.Background(), store.Config{
		AppName: "insight-test",
		PG:      store.PGConfig{Enabled: true, URL: dsn, MaxConns: 4},
	}, store.WithLogger(*logger.Nop()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	return st.PG
}
