package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/leadbook/internal/db"
	"github.com/alexanderramin/leadbook/internal/domain"
)

// slotTable stores one JSON list per lead under a stable string key.
type slotTable[T any] struct {
	db    db.DBTX
	table string
	key   func(leadID string) string
	label string
}

func (s slotTable[T]) get(ctx context.Context, leadID string) ([]T, bool, error) {
	query := `SELECT payload FROM ` + s.table + ` WHERE slot_key = ?`
	var payload string
	err := s.db.QueryRowContext(ctx, query, s.key(leadID)).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", s.label, err)
	}
	items, err := decodeList[T](payload)
	if err != nil {
		return nil, true, fmt.Errorf("%s %s: %w", s.label, s.key(leadID), err)
	}
	return items, true, nil
}

func (s slotTable[T]) put(ctx context.Context, leadID string, items []T) error {
	payload, err := encodeList(items)
	if err != nil {
		return err
	}
	query := `INSERT INTO ` + s.table + ` (slot_key, lead_id, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(slot_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, s.key(leadID), leadID, payload, nowUTC()); err != nil {
		return fmt.Errorf("writing %s: %w", s.label, err)
	}
	return nil
}

func (s slotTable[T]) delete(ctx context.Context, leadID string) error {
	query := `DELETE FROM ` + s.table + ` WHERE slot_key = ?`
	if _, err := s.db.ExecContext(ctx, query, s.key(leadID)); err != nil {
		return fmt.Errorf("deleting %s: %w", s.label, err)
	}
	return nil
}

// SQLiteLegacyTaskSlotStore implements LegacyTaskSlotStore. Each slot holds the
// JSON task array of one lead under crm-lead-tasks-{leadId}.
type SQLiteLegacyTaskSlotStore struct {
	slots slotTable[domain.Task]
}

// NewSQLiteLegacyTaskSlotStore creates a new SQLiteLegacyTaskSlotStore.
func NewSQLiteLegacyTaskSlotStore(conn db.DBTX) *SQLiteLegacyTaskSlotStore {
	return &SQLiteLegacyTaskSlotStore{slots: slotTable[domain.Task]{
		db:    conn,
		table: "legacy_task_slots",
		key:   LegacyTaskSlotKey,
		label: "legacy task slot",
	}}
}

func (r *SQLiteLegacyTaskSlotStore) Get(ctx context.Context, leadID string) ([]domain.Task, bool, error) {
	return r.slots.get(ctx, leadID)
}

func (r *SQLiteLegacyTaskSlotStore) Put(ctx context.Context, leadID string, tasks []domain.Task) error {
	return r.slots.put(ctx, leadID, tasks)
}

func (r *SQLiteLegacyTaskSlotStore) Delete(ctx context.Context, leadID string) error {
	return r.slots.delete(ctx, leadID)
}

// SQLiteNoteSlotStore implements NoteSlotStore. Each slot holds a JSON note
// array under crm-lead-notes-{leadId}.
type SQLiteNoteSlotStore struct {
	slots slotTable[domain.Note]
}

// NewSQLiteNoteSlotStore creates a new SQLiteNoteSlotStore.
func NewSQLiteNoteSlotStore(conn db.DBTX) *SQLiteNoteSlotStore {
	return &SQLiteNoteSlotStore{slots: slotTable[domain.Note]{
		db:    conn,
		table: "note_slots",
		key:   NoteSlotKey,
		label: "note slot",
	}}
}

func (r *SQLiteNoteSlotStore) Get(ctx context.Context, leadID string) ([]domain.Note, bool, error) {
	return r.slots.get(ctx, leadID)
}

func (r *SQLiteNoteSlotStore) Put(ctx context.Context, leadID string, notes []domain.Note) error {
	return r.slots.put(ctx, leadID, notes)
}

func (r *SQLiteNoteSlotStore) Delete(ctx context.Context, leadID string) error {
	return r.slots.delete(ctx, leadID)
}
