package pg

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang-migrate/migrate/v4"
	pgdriver "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/stdlib"
)

// migrationsTable keeps the journal's version row apart from any other
// migrate user sharing the database.
const migrationsTable = "price_sync_schema_migrations"

//go:embed migrations/*.sql
var migrations embed.FS

// RunMigrations waits for the server to accept connections, then applies
// the embedded journal migrations over the existing pool.
func RunMigrations(ctx context.Context, db *DB) error {
	if err := waitReady(ctx, db, 15*time.Second); err != nil {
		return err
	}

	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrations source: %w", err)
	}
	sqldb := stdlib.OpenDBFromPool(db.Pool)
	defer sqldb.Close()

	driver, err := pgdriver.WithInstance(sqldb, &pgdriver.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return fmt.Errorf("migrations driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrations init: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations up: %w", err)
	}
	return nil
}

func waitReady(ctx context.Context, db *DB, maxWait time.Duration) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = maxWait
	err := backoff.Retry(func() error { return db.Ping(ctx) }, backoff.WithContext(b, ctx))
	if err != nil {
		return fmt.Errorf("ping db: %w", err)
	}
	return nil
}
