package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/leadbook/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// LeadCollection is the lead list owned outside this module. It is read and
// written as a whole; WriteAll replaces the collection and keeps slice order.
type LeadCollection interface {
	ReadAll(ctx context.Context) ([]domain.Lead, error)
	WriteAll(ctx context.Context, leads []domain.Lead) error
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
}

// TaskStore is the global task collection covering every lead.
type TaskStore interface {
	ListAll(ctx context.Context) ([]domain.Task, error)
	ListByLead(ctx context.Context, leadID string) ([]domain.Task, error)
	ReplaceForLead(ctx context.Context, leadID string, tasks []domain.Task) error
	DeleteByLead(ctx context.Context, leadID string) error
}

// LegacyTaskSlotStore holds the older per-lead task lists. Get reports
// whether the slot exists separately from whether it is empty.
type LegacyTaskSlotStore interface {
	Get(ctx context.Context, leadID string) ([]domain.Task, bool, error)
	Put(ctx context.Context, leadID string, tasks []domain.Task) error
	Delete(ctx context.Context, leadID string) error
}

// NoteSlotStore holds the per-lead note list.
type NoteSlotStore interface {
	Get(ctx context.Context, leadID string) ([]domain.Note, bool, error)
	Put(ctx context.Context, leadID string, notes []domain.Note) error
	Delete(ctx context.Context, leadID string) error
}
