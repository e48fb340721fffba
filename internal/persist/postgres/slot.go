// Package postgres stores storage slots in a Postgres table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/saadjs/mealplan-cli/internal/persist"
)

var _ persist.Slot = (*Slot)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/mealplan?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

type Slot struct {
	db *sql.DB
}

// Open connects to dsn (or a localhost default) and ensures the slot table exists.
func Open(ctx context.Context, dsn string) (*Slot, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureSlotTable(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Slot{db: db}, nil
}

func ensureSlotTable(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS storage_slots (
		name TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure storage_slots table: %w", err)
	}
	return nil
}

func (s *Slot) Load(ctx context.Context, name string) ([]byte, error) {
	if err := persist.ValidateSlotName(name); err != nil {
		return nil, err
	}
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM storage_slots WHERE name = $1`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persist.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select slot %s: %w", name, err)
	}
	return payload, nil
}

func (s *Slot) Save(ctx context.Context, name string, payload []byte) error {
	if err := persist.ValidateSlotName(name); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO storage_slots(name,payload,updated_at) VALUES($1,$2,now()) ON CONFLICT(name) DO UPDATE SET payload=EXCLUDED.payload, updated_at=EXCLUDED.updated_at`, name, string(payload))
	if err != nil {
		return fmt.Errorf("upsert slot %s: %w", name, err)
	}
	return nil
}

func (s *Slot) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Slot) DB() *sql.DB { return s.db }
