package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/leadbook/internal/db"
	"github.com/alexanderramin/leadbook/internal/domain"
)

const taskColumns = `id, title, lead_id, lead_name, due, status, note, type, remind`

// SQLiteTaskStore implements TaskStore using a SQLite database.
type SQLiteTaskStore struct {
	db db.DBTX
}

// NewSQLiteTaskStore creates a new SQLiteTaskStore.
func NewSQLiteTaskStore(conn db.DBTX) *SQLiteTaskStore {
	return &SQLiteTaskStore{db: conn}
}

func (r *SQLiteTaskStore) ListAll(ctx context.Context) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY lead_id, position`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskStore) ListByLead(ctx context.Context, leadID string) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE lead_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks by lead: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

// ReplaceForLead swaps every task of leadID for tasks, in order. Tasks of
// other leads are untouched.
func (r *SQLiteTaskStore) ReplaceForLead(ctx context.Context, leadID string, tasks []domain.Task) error {
	if err := r.DeleteByLead(ctx, leadID); err != nil {
		return err
	}

	query := `INSERT INTO tasks (position, ` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i := range tasks {
		t := &tasks[i]
		_, err := r.db.ExecContext(ctx, query,
			i,
			t.ID,
			t.Title,
			leadID,
			t.LeadName,
			t.Due,
			string(t.Status),
			t.Note,
			string(t.Type),
			boolToInt(t.Remind),
		)
		if err != nil {
			return fmt.Errorf("inserting task %s: %w", t.ID, err)
		}
	}
	return nil
}

func (r *SQLiteTaskStore) DeleteByLead(ctx context.Context, leadID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE lead_id = ?`, leadID); err != nil {
		return fmt.Errorf("deleting tasks for lead: %w", err)
	}
	return nil
}

// scanTasks scans task rows. The stored title also fills the legacy Text alias.
func (r *SQLiteTaskStore) scanTasks(rows *sql.Rows) ([]domain.Task, error) {
	tasks := []domain.Task{}
	for rows.Next() {
		var t domain.Task
		var status, taskType string
		var remind int

		err := rows.Scan(&t.ID, &t.Title, &t.LeadID, &t.LeadName, &t.Due, &status, &t.Note, &taskType, &remind)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		t.Text = t.Title
		t.Status = domain.TaskStatus(status)
		t.Type = domain.TaskType(taskType)
		t.Remind = intToBool(remind)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}
