package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/leadbook/internal/db"
	"github.com/alexanderramin/leadbook/internal/domain"
	"github.com/alexanderramin/leadbook/internal/repository"
	"github.com/alexanderramin/leadbook/internal/scheduler"
	"github.com/google/uuid"
)

type taskService struct {
	tasks    repository.TaskStore
	uow      db.UnitOfWork
	observer UseCaseObserver
	now      func() time.Time
	suffix   func() string
}

// NewTaskService builds the task repository. Every write goes to the global
// task collection and the lead's legacy slot inside one transaction.
func NewTaskService(tasks repository.TaskStore, uow db.UnitOfWork, observers ...UseCaseObserver) TaskService {
	return &taskService{
		tasks:    tasks,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
		suffix:   randomSuffix,
	}
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// taskStores are the tx-scoped stores one task operation touches.
type taskStores struct {
	leads  repository.LeadCollection
	global repository.TaskStore
	legacy repository.LegacyTaskSlotStore
}

func newTaskStores(tx db.DBTX) taskStores {
	return taskStores{
		leads:  repository.NewSQLiteLeadCollection(tx),
		global: repository.NewSQLiteTaskStore(tx),
		legacy: repository.NewSQLiteLegacyTaskSlotStore(tx),
	}
}

// write replaces the lead's tasks in both views. Callers run it inside a
// transaction so the two writes commit together.
func (st taskStores) write(ctx context.Context, leadID string, tasks []domain.Task) error {
	for i := range tasks {
		tasks[i].LeadID = leadID
		tasks[i].Text = tasks[i].Title
	}
	if err := st.global.ReplaceForLead(ctx, leadID, tasks); err != nil {
		return err
	}
	return st.legacy.Put(ctx, leadID, tasks)
}

// removeAll drops every task of the lead from both views.
func (st taskStores) removeAll(ctx context.Context, leadID string) error {
	if err := st.legacy.Delete(ctx, leadID); err != nil {
		return err
	}
	return st.global.DeleteByLead(ctx, leadID)
}

// resolve returns the lead's current tasks. The global collection wins; a
// legacy slot is adopted into it; otherwise tasks are synthesized once from
// the lead's upcoming entries. Adoption and synthesis are written straight
// away so later loads never rebuild from older data.
func (s *taskService) resolve(ctx context.Context, st taskStores, lead *domain.Lead) ([]domain.Task, error) {
	tasks, err := st.global.ListByLead(ctx, lead.ID)
	if err != nil {
		return nil, err
	}
	if len(tasks) > 0 {
		return tasks, nil
	}

	legacy, ok, err := st.legacy.Get(ctx, lead.ID)
	if err != nil {
		return nil, err
	}
	if ok {
		adopted := adoptLegacyTasks(lead, legacy, s.now())
		if len(adopted) == 0 {
			return adopted, nil
		}
		if err := st.write(ctx, lead.ID, adopted); err != nil {
			return nil, err
		}
		return adopted, nil
	}

	synthesized := synthesizeTasks(lead, s.now())
	if err := st.write(ctx, lead.ID, synthesized); err != nil {
		return nil, err
	}
	return synthesized, nil
}

// adoptLegacyTasks fills fields older slots may lack. Ids that are missing or
// repeated within the slot are regenerated.
func adoptLegacyTasks(lead *domain.Lead, legacy []domain.Task, now time.Time) []domain.Task {
	adopted := make([]domain.Task, 0, len(legacy))
	seen := make(map[string]bool, len(legacy))
	for i, t := range legacy {
		if t.ID == "" || seen[t.ID] {
			t.ID = fmt.Sprintf("task-%s-%d-%d", lead.ID, now.UnixMilli(), i)
		}
		seen[t.ID] = true
		t.LeadID = lead.ID
		t.LeadName = domain.CoalesceStr(t.LeadName, lead.Name)
		t.SetTitle(domain.CoalesceStr(t.Title, t.Text))
		if !domain.ValidTaskStatuses[string(t.Status)] {
			t.Status = domain.TaskPending
		}
		t.Type = domain.CoalesceTaskType(t.Type)
		adopted = append(adopted, t)
	}
	return adopted
}

func synthesizeTasks(lead *domain.Lead, now time.Time) []domain.Task {
	tasks := make([]domain.Task, 0, len(lead.Upcoming))
	for i, entry := range lead.Upcoming {
		tasks = append(tasks, domain.Task{
			ID:       fmt.Sprintf("task-%s-%d-%d", lead.ID, now.UnixMilli(), i),
			Title:    entry.Text,
			Text:     entry.Text,
			LeadID:   lead.ID,
			LeadName: lead.Name,
			Due:      entry.Due,
			Status:   domain.TaskPending,
			Type:     domain.CoalesceTaskType(entry.Type),
		})
	}
	return tasks
}

func (s *taskService) Load(ctx context.Context, lead *domain.Lead) (tasks []domain.Task, err error) {
	startedAt := time.Now()
	defer observe(ctx, s.observer, "load-tasks", startedAt, map[string]any{"lead_id": lead.ID}, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var rerr error
		tasks, rerr = s.resolve(ctx, newTaskStores(tx), lead)
		return rerr
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return tasks, nil
}

func (s *taskService) Save(ctx context.Context, leadID string, tasks []domain.Task) (err error) {
	startedAt := time.Now()
	defer observe(ctx, s.observer, "save-tasks", startedAt, map[string]any{"lead_id": leadID, "count": len(tasks)}, &err)

	snapshot := append([]domain.Task(nil), tasks...)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return newTaskStores(tx).write(ctx, leadID, snapshot)
	})
	return storageErr(err)
}

// mutate loads the lead's current tasks, applies fn and writes the result to
// both views in one transaction. fn returns the task it touched, if any.
func (s *taskService) mutate(ctx context.Context, leadID string, fn func(lead *domain.Lead, tasks []domain.Task) ([]domain.Task, *domain.Task, error)) (*domain.Task, error) {
	var touched *domain.Task
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := newTaskStores(tx)
		lead, err := st.leads.GetByID(ctx, leadID)
		if err != nil {
			return err
		}
		current, err := s.resolve(ctx, st, lead)
		if err != nil {
			return err
		}
		next, t, err := fn(lead, current)
		if err != nil {
			return err
		}
		if err := st.write(ctx, leadID, next); err != nil {
			return err
		}
		if t != nil {
			cp := *t
			cp.LeadID = leadID
			cp.Text = cp.Title
			touched = &cp
		}
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return touched, nil
}

func findTask(tasks []domain.Task, taskID string) (int, error) {
	for i := range tasks {
		if tasks[i].ID == taskID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("task %s: %w", taskID, repository.ErrNotFound)
}

func validateDraft(draft domain.TaskDraft) error {
	if strings.TrimSpace(draft.Title) == "" {
		return validationErrorf("task title is required")
	}
	if _, ok := domain.ParseDue(draft.Due); !ok {
		return validationErrorf("invalid due date %q", draft.Due)
	}
	if draft.Type != "" && !domain.ValidTaskTypes[string(draft.Type)] {
		return validationErrorf("invalid task type %q", draft.Type)
	}
	return nil
}

func validatePatch(p domain.TaskPatch) error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return validationErrorf("task title is required")
	}
	if p.Due != nil {
		if _, ok := domain.ParseDue(*p.Due); !ok {
			return validationErrorf("invalid due date %q", *p.Due)
		}
	}
	if p.Status != nil && !domain.ValidTaskStatuses[string(*p.Status)] {
		return validationErrorf("invalid task status %q", *p.Status)
	}
	if p.Type != nil && !domain.ValidTaskTypes[string(*p.Type)] {
		return validationErrorf("invalid task type %q", *p.Type)
	}
	return nil
}

func (s *taskService) Add(ctx context.Context, leadID, leadName string, draft domain.TaskDraft) (task *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{"lead_id": leadID}
	defer observe(ctx, s.observer, "add-task", startedAt, fields, &err)

	if err = validateDraft(draft); err != nil {
		return nil, err
	}

	now := s.now()
	task, err = s.mutate(ctx, leadID, func(lead *domain.Lead, tasks []domain.Task) ([]domain.Task, *domain.Task, error) {
		t := domain.Task{
			ID:       fmt.Sprintf("task-%s-%d-%s", leadID, now.UnixMilli(), s.suffix()),
			LeadID:   leadID,
			LeadName: domain.CoalesceStr(leadName, lead.Name),
			Due:      strings.TrimSpace(draft.Due),
			Status:   domain.TaskPending,
			Note:     draft.Note,
			Type:     domain.CoalesceTaskType(draft.Type),
			Remind:   draft.Remind,
		}
		t.SetTitle(strings.TrimSpace(draft.Title))
		tasks = append(tasks, t)
		return tasks, &tasks[len(tasks)-1], nil
	})
	if task != nil {
		fields["task_id"] = task.ID
	}
	return task, err
}

func (s *taskService) Edit(ctx context.Context, leadID, taskID string, patch domain.TaskPatch) (task *domain.Task, err error) {
	startedAt := time.Now()
	defer observe(ctx, s.observer, "edit-task", startedAt, map[string]any{"lead_id": leadID, "task_id": taskID}, &err)

	if err = validatePatch(patch); err != nil {
		return nil, err
	}
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		patch.Title = &trimmed
	}

	return s.mutate(ctx, leadID, func(lead *domain.Lead, tasks []domain.Task) ([]domain.Task, *domain.Task, error) {
		i, err := findTask(tasks, taskID)
		if err != nil {
			return nil, nil, err
		}
		tasks[i].Apply(patch)
		// leadName is a display cache; an edit is the moment it is refreshed.
		tasks[i].LeadName = lead.Name
		return tasks, &tasks[i], nil
	})
}

func (s *taskService) ToggleStatus(ctx context.Context, leadID, taskID string) (task *domain.Task, err error) {
	startedAt := time.Now()
	defer observe(ctx, s.observer, "toggle-task", startedAt, map[string]any{"lead_id": leadID, "task_id": taskID}, &err)

	return s.mutate(ctx, leadID, func(_ *domain.Lead, tasks []domain.Task) ([]domain.Task, *domain.Task, error) {
		i, err := findTask(tasks, taskID)
		if err != nil {
			return nil, nil, err
		}
		tasks[i].ToggleStatus()
		return tasks, &tasks[i], nil
	})
}

func (s *taskService) Remove(ctx context.Context, leadID, taskID string) (err error) {
	startedAt := time.Now()
	defer observe(ctx, s.observer, "remove-task", startedAt, map[string]any{"lead_id": leadID, "task_id": taskID}, &err)

	_, err = s.mutate(ctx, leadID, func(_ *domain.Lead, tasks []domain.Task) ([]domain.Task, *domain.Task, error) {
		i, err := findTask(tasks, taskID)
		if err != nil {
			return nil, nil, err
		}
		return append(tasks[:i], tasks[i+1:]...), nil, nil
	})
	return err
}

func (s *taskService) RemoveAllForLead(ctx context.Context, leadID string) (err error) {
	startedAt := time.Now()
	defer observe(ctx, s.observer, "remove-lead-tasks", startedAt, map[string]any{"lead_id": leadID}, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return newTaskStores(tx).removeAll(ctx, leadID)
	})
	return storageErr(err)
}

// ListAll reads the global collection across every lead, filtered and sorted
// the same way as a single lead's view.
func (s *taskService) ListAll(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	tasks, err := s.tasks.ListAll(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	return scheduler.VisibleTasks(tasks, filter), nil
}
