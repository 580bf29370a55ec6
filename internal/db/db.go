// Package db manages the PostgreSQL connection the store layer runs against.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Config holds database connection settings.
type Config struct {
	DatabaseURL     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DB wraps sql.DB with transaction support.
type DB struct {
	*sql.DB
}

// DBTX is the interface every store adapter depends on, compatible with
// both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Connect opens a PostgreSQL connection with retry/backoff, polling until the
// database is reachable or maxRetries is exhausted. DATABASE_URL overrides
// cfg.DatabaseURL when set.
func Connect(ctx context.Context, cfg Config) (*DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = cfg.DatabaseURL
	}
	if dbURL == "" {
		return nil, fmt.Errorf("db: DATABASE_URL is required")
	}

	const maxRetries = 30
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		sqlDB, err := sql.Open("pgx", dbURL)
		if err != nil {
			return nil, fmt.Errorf("db: opening postgres: %w", err)
		}

		if err := sqlDB.PingContext(ctx); err != nil {
			sqlDB.Close()
			lastErr = err
			if attempt < maxRetries {
				log.Printf("db: waiting for postgres (attempt %d/%d): %v", attempt, maxRetries, err)
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(time.Second):
				}
			}
			continue
		}

		maxOpen := cfg.MaxOpenConns
		if maxOpen == 0 {
			maxOpen = 25
		}
		maxIdle := cfg.MaxIdleConns
		if maxIdle == 0 {
			maxIdle = 5
		}
		sqlDB.SetMaxOpenConns(maxOpen)
		sqlDB.SetMaxIdleConns(maxIdle)
		if cfg.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}

		return &DB{DB: sqlDB}, nil
	}

	return nil, fmt.Errorf("db: postgres unreachable after %d attempts: %w", maxRetries, lastErr)
}
