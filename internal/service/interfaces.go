package service

import (
	"context"
	"io"

	"github.com/alexanderramin/leadbook/internal/domain"
	"github.com/alexanderramin/leadbook/internal/importer"
)

// LeadQuery narrows a lead listing. Zero values match everything.
type LeadQuery struct {
	Status domain.LeadStatus
	Query  string
}

// PipelineSummary aggregates the lead collection.
type PipelineSummary struct {
	Total        int
	ByStatus     map[domain.LeadStatus]int
	HotValue     int64
	AverageValue int64
}

type LeadService interface {
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	List(ctx context.Context, q LeadQuery) ([]domain.Lead, error)
	SaveEdit(ctx context.Context, lead *domain.Lead) error
	Delete(ctx context.Context, id string) error
	CycleStatus(ctx context.Context, id string) (*domain.Lead, error)
	Summary(ctx context.Context) (*PipelineSummary, error)
	ExportCSV(ctx context.Context, w io.Writer) (int, error)
}

type TaskService interface {
	Load(ctx context.Context, lead *domain.Lead) ([]domain.Task, error)
	Save(ctx context.Context, leadID string, tasks []domain.Task) error
	Add(ctx context.Context, leadID, leadName string, draft domain.TaskDraft) (*domain.Task, error)
	Edit(ctx context.Context, leadID, taskID string, patch domain.TaskPatch) (*domain.Task, error)
	ToggleStatus(ctx context.Context, leadID, taskID string) (*domain.Task, error)
	Remove(ctx context.Context, leadID, taskID string) error
	RemoveAllForLead(ctx context.Context, leadID string) error
	ListAll(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
}

type NoteService interface {
	Load(ctx context.Context, lead *domain.Lead) (domain.Note, error)
	Save(ctx context.Context, leadID, text string) (domain.Note, error)
	Saving(leadID string) bool
}

// ImportResult holds the outcome of a legacy storage import.
type ImportResult struct {
	LeadCount      int
	TaskSlotCount  int
	NoteSlotCount  int
	GlobalTaskRows int
}

type ImportService interface {
	ImportFile(ctx context.Context, filePath string) (*ImportResult, error)
	ImportDump(ctx context.Context, dump *importer.Dump) (*ImportResult, error)
}
