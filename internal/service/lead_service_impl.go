package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/leadbook/internal/db"
	"github.com/alexanderramin/leadbook/internal/domain"
	"github.com/alexanderramin/leadbook/internal/repository"
)

// csvHeader is the column order of a lead export.
var csvHeader = []string{
	"id", "name", "phone", "email", "country", "status",
	"lastInteraction", "estimatedValue", "score",
}

type leadService struct {
	leads    repository.LeadCollection
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewLeadService(leads repository.LeadCollection, uow db.UnitOfWork, observers ...UseCaseObserver) LeadService {
	return &leadService{
		leads:    leads,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *leadService) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	return lead, nil
}

// List returns leads in collection order. Query matches name, phone or email
// as a case-insensitive substring.
func (s *leadService) List(ctx context.Context, q LeadQuery) ([]domain.Lead, error) {
	all, err := s.leads.ReadAll(ctx)
	if err != nil {
		return nil, storageErr(err)
	}

	needle := strings.ToLower(strings.TrimSpace(q.Query))
	out := make([]domain.Lead, 0, len(all))
	for _, l := range all {
		if q.Status != "" && l.Status != q.Status {
			continue
		}
		if needle != "" && !matchesLead(&l, needle) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func matchesLead(l *domain.Lead, needle string) bool {
	return strings.Contains(strings.ToLower(l.Name), needle) ||
		strings.Contains(l.Phone, needle) ||
		strings.Contains(strings.ToLower(l.Email), needle)
}

// update rewrites the whole collection with fn applied to the lead matching
// id. Every other entry keeps its value and position.
func (s *leadService) update(ctx context.Context, id string, fn func(l *domain.Lead) error) (*domain.Lead, error) {
	var updated domain.Lead
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		leads := repository.NewSQLiteLeadCollection(tx)
		all, err := leads.ReadAll(ctx)
		if err != nil {
			return err
		}
		i := indexOfLead(all, id)
		if i < 0 {
			return fmt.Errorf("lead %s: %w", id, repository.ErrNotFound)
		}
		if err := fn(&all[i]); err != nil {
			return err
		}
		updated = all[i]
		return leads.WriteAll(ctx, all)
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return &updated, nil
}

func indexOfLead(leads []domain.Lead, id string) int {
	for i := range leads {
		if leads[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *leadService) SaveEdit(ctx context.Context, lead *domain.Lead) (err error) {
	startedAt := time.Now()
	defer observe(ctx, s.observer, "save-lead", startedAt, map[string]any{"lead_id": lead.ID}, &err)

	if verr := lead.Validate(); verr != nil {
		return validationErrorf("%v", verr)
	}
	edited := *lead
	_, err = s.update(ctx, lead.ID, func(l *domain.Lead) error {
		*l = edited
		return nil
	})
	return err
}

func (s *leadService) CycleStatus(ctx context.Context, id string) (lead *domain.Lead, err error) {
	startedAt := time.Now()
	fields := map[string]any{"lead_id": id}
	defer observe(ctx, s.observer, "cycle-lead-status", startedAt, fields, &err)

	lead, err = s.update(ctx, id, func(l *domain.Lead) error {
		l.Status = l.Status.NextStatus()
		return nil
	})
	if lead != nil {
		fields["status"] = string(lead.Status)
	}
	return lead, err
}

// Delete removes the lead with its tasks, legacy task slot and note slot in
// one transaction.
func (s *leadService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	defer observe(ctx, s.observer, "delete-lead", startedAt, map[string]any{"lead_id": id}, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		leads := repository.NewSQLiteLeadCollection(tx)
		all, err := leads.ReadAll(ctx)
		if err != nil {
			return err
		}
		i := indexOfLead(all, id)
		if i < 0 {
			return fmt.Errorf("lead %s: %w", id, repository.ErrNotFound)
		}
		if err := leads.WriteAll(ctx, append(all[:i], all[i+1:]...)); err != nil {
			return err
		}
		if err := newTaskStores(tx).removeAll(ctx, id); err != nil {
			return err
		}
		return repository.NewSQLiteNoteSlotStore(tx).Delete(ctx, id)
	})
	return storageErr(err)
}

func (s *leadService) Summary(ctx context.Context) (*PipelineSummary, error) {
	all, err := s.leads.ReadAll(ctx)
	if err != nil {
		return nil, storageErr(err)
	}

	sum := &PipelineSummary{
		Total:    len(all),
		ByStatus: make(map[domain.LeadStatus]int, 4),
	}
	var total int64
	for _, l := range all {
		sum.ByStatus[l.Status]++
		total += l.EstimatedValue
		if l.Status == domain.LeadHot {
			sum.HotValue += l.EstimatedValue
		}
	}
	if len(all) > 0 {
		sum.AverageValue = int64(math.Round(float64(total) / float64(len(all))))
	}
	return sum, nil
}

// ExportCSV writes every lead as one CSV row and returns the row count.
func (s *leadService) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	all, err := s.leads.ReadAll(ctx)
	if err != nil {
		return 0, storageErr(err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("writing csv header: %w", err)
	}
	for _, l := range all {
		record := []string{
			l.ID, l.Name, l.Phone, l.Email, l.Country, string(l.Status),
			l.LastInteraction,
			strconv.FormatInt(l.EstimatedValue, 10),
			strconv.Itoa(l.Score),
		}
		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("writing csv row %s: %w", l.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flushing csv: %w", err)
	}
	return len(all), nil
}
