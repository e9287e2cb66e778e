package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillTaskLeadNames(db); err != nil {
		return fmt.Errorf("backfilling task lead names: %w", err)
	}
	return nil
}

// migrateBackfillTaskLeadNames fills lead_name on tasks written before the
// column existed. The name is a display cache, so rows whose lead is gone
// are left blank.
func migrateBackfillTaskLeadNames(db *sql.DB) error {
	ctx := context.Background()

	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE lead_name = ''`).Scan(&count)
	if err != nil {
		if strings.Contains(err.Error(), "no such column") {
			return nil
		}
		return fmt.Errorf("checking tasks lead_name: %w", err)
	}
	if count == 0 {
		return nil
	}

	_, err = db.ExecContext(ctx, `UPDATE tasks
		SET lead_name = (SELECT l.name FROM leads l WHERE l.id = tasks.lead_id)
		WHERE lead_name = ''
		  AND EXISTS (SELECT 1 FROM leads l WHERE l.id = tasks.lead_id)`)
	if err != nil {
		return fmt.Errorf("updating tasks lead_name: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS leads (
		id                TEXT PRIMARY KEY,
		position          INTEGER NOT NULL DEFAULT 0,
		name              TEXT NOT NULL,
		phone             TEXT NOT NULL DEFAULT '',
		email             TEXT NOT NULL DEFAULT '',
		country           TEXT NOT NULL DEFAULT '',
		status            TEXT NOT NULL DEFAULT 'cold'
		                  CHECK(status IN ('cold','warm','hot','converted')),
		last_interaction  TEXT NOT NULL DEFAULT '',
		estimated_value   INTEGER NOT NULL DEFAULT 0 CHECK(estimated_value >= 0),
		score             INTEGER NOT NULL DEFAULT 3 CHECK(score BETWEEN 1 AND 5),
		notes_json        TEXT NOT NULL DEFAULT '[]',
		interactions_json TEXT NOT NULL DEFAULT '[]',
		upcoming_json     TEXT NOT NULL DEFAULT '[]'
	)`,

	`CREATE INDEX IF NOT EXISTS idx_leads_position ON leads(position)`,

	// Global task collection. Rows for one lead keep their list order in position.
	`CREATE TABLE IF NOT EXISTS tasks (
		lead_id   TEXT NOT NULL,
		id        TEXT NOT NULL,
		position  INTEGER NOT NULL DEFAULT 0,
		title     TEXT NOT NULL,
		due       TEXT NOT NULL DEFAULT '',
		status    TEXT NOT NULL DEFAULT 'pending'
		          CHECK(status IN ('pending','done','overdue')),
		note      TEXT NOT NULL DEFAULT '',
		type      TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (lead_id, id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_lead ON tasks(lead_id, position)`,

	// Legacy per-lead task slots: one JSON array per lead, keyed crm-lead-tasks-{id}.
	`CREATE TABLE IF NOT EXISTS legacy_task_slots (
		slot_key   TEXT PRIMARY KEY,
		lead_id    TEXT NOT NULL UNIQUE,
		payload    TEXT NOT NULL DEFAULT '[]',
		updated_at TEXT NOT NULL
	)`,

	// Note slots: a one-element JSON array per lead, keyed crm-lead-notes-{id}.
	`CREATE TABLE IF NOT EXISTS note_slots (
		slot_key   TEXT PRIMARY KEY,
		lead_id    TEXT NOT NULL UNIQUE,
		payload    TEXT NOT NULL DEFAULT '[]',
		updated_at TEXT NOT NULL
	)`,

	// v2: reminders and denormalized lead names on tasks
	`ALTER TABLE tasks ADD COLUMN remind INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE tasks ADD COLUMN lead_name TEXT NOT NULL DEFAULT ''`,
}
