package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/leadbook/internal/db"
	"github.com/alexanderramin/leadbook/internal/domain"
)

const leadColumns = `id, name, phone, email, country, status, last_interaction,
	estimated_value, score, notes_json, interactions_json, upcoming_json`

// SQLiteLeadCollection implements LeadCollection using a SQLite database.
type SQLiteLeadCollection struct {
	db db.DBTX
}

// NewSQLiteLeadCollection creates a new SQLiteLeadCollection.
func NewSQLiteLeadCollection(conn db.DBTX) *SQLiteLeadCollection {
	return &SQLiteLeadCollection{db: conn}
}

func (r *SQLiteLeadCollection) ReadAll(ctx context.Context) ([]domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY position, rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	defer rows.Close()

	leads := []domain.Lead{}
	for rows.Next() {
		l, err := r.scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leads: %w", err)
	}
	return leads, nil
}

// WriteAll overwrites the whole collection. Run it inside a UnitOfWork so a
// failed insert does not leave the collection truncated.
func (r *SQLiteLeadCollection) WriteAll(ctx context.Context, leads []domain.Lead) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM leads`); err != nil {
		return fmt.Errorf("clearing leads: %w", err)
	}

	query := `INSERT INTO leads (position, ` + leadColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i := range leads {
		l := &leads[i]
		notes, err := encodeList(l.Notes)
		if err != nil {
			return err
		}
		interactions, err := encodeList(l.Interactions)
		if err != nil {
			return err
		}
		upcoming, err := encodeList(l.Upcoming)
		if err != nil {
			return err
		}
		_, err = r.db.ExecContext(ctx, query,
			i,
			l.ID,
			l.Name,
			l.Phone,
			l.Email,
			l.Country,
			string(l.Status),
			l.LastInteraction,
			l.EstimatedValue,
			l.Score,
			notes,
			interactions,
			upcoming,
		)
		if err != nil {
			return fmt.Errorf("inserting lead %s: %w", l.ID, err)
		}
	}
	return nil
}

func (r *SQLiteLeadCollection) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = ?`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("getting lead: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("getting lead: %w", err)
		}
		return nil, fmt.Errorf("lead %s: %w", id, ErrNotFound)
	}
	return r.scanLead(rows)
}

// scanLead scans one lead row and decodes its legacy inline lists.
func (r *SQLiteLeadCollection) scanLead(rows *sql.Rows) (*domain.Lead, error) {
	var l domain.Lead
	var status, notesJSON, interactionsJSON, upcomingJSON string

	err := rows.Scan(
		&l.ID, &l.Name, &l.Phone, &l.Email, &l.Country, &status, &l.LastInteraction,
		&l.EstimatedValue, &l.Score, &notesJSON, &interactionsJSON, &upcomingJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("lead: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning lead: %w", err)
	}
	l.Status = domain.LeadStatus(status)

	if l.Notes, err = decodeList[domain.InlineNote](notesJSON); err != nil {
		return nil, fmt.Errorf("lead %s notes: %w", l.ID, err)
	}
	if l.Interactions, err = decodeList[domain.Interaction](interactionsJSON); err != nil {
		return nil, fmt.Errorf("lead %s interactions: %w", l.ID, err)
	}
	if l.Upcoming, err = decodeList[domain.UpcomingEntry](upcomingJSON); err != nil {
		return nil, fmt.Errorf("lead %s upcoming: %w", l.ID, err)
	}
	return &l, nil
}
