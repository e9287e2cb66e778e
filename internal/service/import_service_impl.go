package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/leadbook/internal/db"
	"github.com/alexanderramin/leadbook/internal/importer"
	"github.com/alexanderramin/leadbook/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportFile(ctx context.Context, filePath string) (*ImportResult, error) {
	dump, err := importer.LoadDump(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportDump(ctx, dump)
}

// ImportDump validates the whole dump, then replaces the lead collection and
// writes every slot in one transaction. Leads absent from the dump lose their
// tasks and notes with them.
func (s *importService) ImportDump(ctx context.Context, dump *importer.Dump) (result *ImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "import-dump", startedAt, fields, &err)

	if errs := importer.ValidateDump(dump); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	converted := importer.Convert(dump)

	result = &ImportResult{
		LeadCount:     len(converted.Leads),
		TaskSlotCount: len(converted.TaskSlots),
		NoteSlotCount: len(converted.NoteSlots),
	}
	for _, tasks := range converted.GlobalTasks {
		result.GlobalTaskRows += len(tasks)
	}
	fields["lead_count"] = result.LeadCount
	fields["global_task_rows"] = result.GlobalTaskRows

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		leads := repository.NewSQLiteLeadCollection(tx)
		notes := repository.NewSQLiteNoteSlotStore(tx)
		st := newTaskStores(tx)

		existing, err := leads.ReadAll(ctx)
		if err != nil {
			return err
		}
		kept := make(map[string]bool, len(converted.Leads))
		for _, l := range converted.Leads {
			kept[l.ID] = true
		}
		for _, l := range existing {
			if kept[l.ID] {
				continue
			}
			if err := st.removeAll(ctx, l.ID); err != nil {
				return err
			}
			if err := notes.Delete(ctx, l.ID); err != nil {
				return err
			}
		}

		if err := leads.WriteAll(ctx, converted.Leads); err != nil {
			return err
		}
		for _, leadID := range importer.SlotLeadIDs(converted.TaskSlots) {
			if err := st.legacy.Put(ctx, leadID, converted.TaskSlots[leadID]); err != nil {
				return err
			}
		}
		for _, leadID := range importer.SlotLeadIDs(converted.NoteSlots) {
			if err := notes.Put(ctx, leadID, converted.NoteSlots[leadID]); err != nil {
				return err
			}
		}
		for _, leadID := range importer.SlotLeadIDs(converted.GlobalTasks) {
			if err := st.global.ReplaceForLead(ctx, leadID, converted.GlobalTasks[leadID]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return result, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
