package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/saadjs/mealplan-cli/internal/persist"
)

var _ persist.Slot = (*SlotStore)(nil)

// SlotStore keeps storage slots as rows of the storage_slots table.
type SlotStore struct {
	db *sql.DB
}

// OpenSlotStore opens the database at path and applies migrations.
func OpenSlotStore(path string) (*SlotStore, error) {
	sqldb, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := ApplyMigrations(sqldb); err != nil {
		_ = sqldb.Close()
		return nil, err
	}
	return &SlotStore{db: sqldb}, nil
}

func (s *SlotStore) Load(ctx context.Context, name string) ([]byte, error) {
	if err := persist.ValidateSlotName(name); err != nil {
		return nil, err
	}
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM storage_slots WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persist.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %q: %w", name, err)
	}
	return []byte(payload), nil
}

func (s *SlotStore) Save(ctx context.Context, name string, payload []byte) error {
	if err := persist.ValidateSlotName(name); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO storage_slots(name, payload, updated_at, write_count)
VALUES(?, ?, CURRENT_TIMESTAMP, 1)
ON CONFLICT(name) DO UPDATE SET payload=excluded.payload, updated_at=excluded.updated_at, write_count=storage_slots.write_count + 1
`, name, string(payload))
	if err != nil {
		return fmt.Errorf("save slot %q: %w", name, err)
	}
	return nil
}

// WriteCount reports how many times name has been saved.
func (s *SlotStore) WriteCount(ctx context.Context, name string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT write_count FROM storage_slots WHERE name = ?`, name).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("count slot writes %q: %w", name, err)
	}
	return n, nil
}

func (s *SlotStore) Close() error {
	return s.db.Close()
}
