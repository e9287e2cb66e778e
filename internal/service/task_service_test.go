package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/leadbook/internal/domain"
	"github.com/alexanderramin/leadbook/internal/repository"
	"github.com/alexanderramin/leadbook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestTaskLoad_SynthesizesFromUpcoming(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	lead := testutil.NewTestLead("Ali", testutil.WithUpcoming(
		domain.UpcomingEntry{Type: domain.TaskWhatsApp, Due: "2024-02-01T10:00", Text: "Send PDF"},
		domain.UpcomingEntry{Due: "2024-02-03", Text: "Follow up"},
	))
	seedLeads(t, s, lead)
	svc := newTestTaskService(s, s.uow)

	tasks, err := svc.Load(ctx, &lead)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	ms := fixedNow.UnixMilli()
	assert.Equal(t, fmt.Sprintf("task-%s-%d-0", lead.ID, ms), tasks[0].ID)
	assert.Equal(t, fmt.Sprintf("task-%s-%d-1", lead.ID, ms), tasks[1].ID)
	assert.Equal(t, "Send PDF", tasks[0].Title)
	assert.Equal(t, "Send PDF", tasks[0].Text)
	assert.Equal(t, domain.TaskPending, tasks[0].Status)
	assert.Equal(t, domain.TaskWhatsApp, tasks[0].Type)
	assert.Equal(t, domain.TaskCall, tasks[1].Type, "missing type defaults to call")
	assert.Equal(t, "2024-02-01T10:00", tasks[0].Due)
	assert.Equal(t, lead.Name, tasks[0].LeadName)

	stored := assertViewsAgree(t, s, lead.ID)
	assert.Equal(t, tasks, stored)
}

func TestTaskLoad_SynthesisIsPersistedOnce(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	lead := testutil.NewTestLead("Ali", testutil.WithUpcoming(
		domain.UpcomingEntry{Type: domain.TaskCall, Due: "2024-02-01", Text: "Call"},
	))
	seedLeads(t, s, lead)
	svc := newTestTaskService(s, s.uow)

	first, err := svc.Load(ctx, &lead)
	require.NoError(t, err)

	svc.now = func() time.Time { return fixedNow.Add(time.Hour) }
	second, err := svc.Load(ctx, &lead)
	require.NoError(t, err)

	assert.Equal(t, first, second, "ids must stay stable across loads")
}

func TestTaskLoad_NoUpcomingMarksLeadMigrated(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	lead := testutil.NewTestLead("Empty")
	seedLeads(t, s, lead)
	svc := newTestTaskService(s, s.uow)

	tasks, err := svc.Load(ctx, &lead)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, ok, err := s.legacy.Get(ctx, lead.ID)
	require.NoError(t, err)
	assert.True(t, ok, "an empty slot records that synthesis already happened")

	// Upcoming entries added later are not synthesized again.
	lead.Upcoming = []domain.UpcomingEntry{{Type: domain.TaskCall, Due: "2024-02-01", Text: "late"}}
	tasks, err = svc.Load(ctx, &lead)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskLoad_AdoptsLegacySlot(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	lead := testutil.NewTestLead("Sara", testutil.WithUpcoming(
		domain.UpcomingEntry{Type: domain.TaskCall, Due: "2024-02-01", Text: "should be ignored"},
	))
	seedLeads(t, s, lead)
	require.NoError(t, s.legacy.Put(ctx, lead.ID, []domain.Task{
		{ID: "old-1", Text: "legacy text", Due: "2024-01-05", Status: domain.TaskDone, Type: domain.TaskSMS},
		{Title: "no id", Due: "2024-01-06"},
		{ID: "old-1", Title: "repeated id", Due: "2024-01-07", Status: "bogus"},
	}))
	svc := newTestTaskService(s, s.uow)

	tasks, err := svc.Load(ctx, &lead)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	ms := fixedNow.UnixMilli()
	assert.Equal(t, "old-1", tasks[0].ID)
	assert.Equal(t, "legacy text", tasks[0].Title, "title taken from the text alias")
	assert.Equal(t, domain.TaskDone, tasks[0].Status)
	assert.Equal(t, fmt.Sprintf("task-%s-%d-1", lead.ID, ms), tasks[1].ID)
	assert.Equal(t, domain.TaskPending, tasks[1].Status)
	assert.Equal(t, domain.TaskCall, tasks[1].Type)
	assert.Equal(t, fmt.Sprintf("task-%s-%d-2", lead.ID, ms), tasks[2].ID)
	assert.Equal(t, domain.TaskPending, tasks[2].Status)
	for _, task := range tasks {
		assert.Equal(t, lead.ID, task.LeadID)
		assert.Equal(t, "Sara", task.LeadName)
	}

	assert.Equal(t, tasks, assertViewsAgree(t, s, lead.ID))
}

func TestTaskLoad_GlobalWinsOverLegacy(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	lead := testutil.NewTestLead("Reza")
	seedLeads(t, s, lead)
	require.NoError(t, s.tasks.ReplaceForLead(ctx, lead.ID, []domain.Task{testutil.NewTestTask("g1", lead.ID, "Global")}))
	require.NoError(t, s.legacy.Put(ctx, lead.ID, []domain.Task{testutil.NewTestTask("l1", lead.ID, "Stale")}))
	svc := newTestTaskService(s, s.uow)

	tasks, err := svc.Load(ctx, &lead)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "g1", tasks[0].ID)
}

func TestTaskLoad_EmptyLegacySlotIsNotResynthesized(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	lead := testutil.NewTestLead("Mina", testutil.WithUpcoming(
		domain.UpcomingEntry{Type: domain.TaskCall, Due: "2024-02-01", Text: "old seed"},
	))
	seedLeads(t, s, lead)
	require.NoError(t, s.legacy.Put(ctx, lead.ID, nil))
	svc := newTestTaskService(s, s.uow)

	tasks, err := svc.Load(ctx, &lead)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskAdd_CreatesTaskInBothViews(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	lead := testutil.NewTestLead("Ali")
	seedLeads(t, s, lead)
	svc := newTestTaskService(s, s.uow)

	task, err := svc.Add(ctx, lead.ID, lead.Name, domain.TaskDraft{
		Title:  "  Send quote  ",
		Due:    "2024-02-01T10:00",
		Type:   domain.TaskMeeting,
		Note:   "bring samples",
		Remind: true,
	})
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("task-%s-%d-aaaaaaaa", lead.ID, fixedNow.UnixMilli()), task.ID)
	assert.Equal(t, "Send quote", task.Title)
	assert.Equal(t, "Send quote", task.Text)
	assert.Equal(t, domain.TaskPending, task.Status)
	assert.Equal(t, domain.TaskMeeting, task.Type)
	assert.True(t, task.Remind)
	assert.Equal(t, lead.ID, task.LeadID)

	stored := assertViewsAgree(t, s, lead.ID)
	require.Len(t, stored, 1)
	assert.Equal(t, *task, stored[0])
}

func TestTaskAdd_SameMillisecondGetsDistinctIDs(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	lead := testutil.NewTestLead("Ali")
	seedLeads(t, s, lead)
	svc := newTestTaskService(s, s.uow)

	a, err := svc.Add(ctx, lead.ID, lead.Name, domain.TaskDraft{Title: "a", Due: "2024-02-01"})
	require.NoError(t, err)
	b, err := svc.Add(ctx, lead.ID, lead.Name, domain.TaskDraft{Title: "b", Due: "2024-02-01"})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, assertViewsAgree(t, s, lead.ID), 2)
}

func TestTaskAdd_ValidationWritesNothing(t *testing.T) {
	tests := []struct {
		name  string
		draft domain.TaskDraft
	}{
		{"empty title", domain.TaskDraft{Title: "", Due: "2024-02-01"}},
		{"blank title", domain.TaskDraft{Title: "   ", Due: "2024-02-01"}},
		{"missing due", domain.TaskDraft{Title: "Call"}},
		{"unparseable due", domain.TaskDraft{Title: "Call", Due: "next tuesday"}},
		{"unknown type", domain.TaskDraft{Title: "Call", Due: "2024-02-01", Type: "fax"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupStores(t)
			ctx := context.Background()
			lead := testutil.NewTestLead("Ali")
			seedLeads(t, s, lead)
			svc := newTestTaskService(s, s.uow)

			task, err := svc.Add(ctx, lead.ID, lead.Name, tt.draft)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Nil(t, task)

			all, err := s.tasks.ListAll(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
			_, ok, err := s.legacy.Get(ctx, lead.ID)
			require.NoError(t, err)
			assert.False(t, ok, "no slot may be written on invalid input")
		})
	}
}

func TestTaskAdd_UnknownLead(t *testing.T) {
	s := setupStores(t)
	svc := newTestTaskService(s, s.uow)

	_, err := svc.Add(context.Background(), "L-missing", "Ghost", domain.TaskDraft{Title: "Call", Due: "2024-02-01"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NotErrorIs(t, err, ErrStorageUnavailable)
}

func TestTaskEdit_MergesPatchAndRefreshesLeadName(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	lead := testutil.NewTestLead("Old Name")
	seedLeads(t, s, lead)
	svc := newTestTaskService(s, s.uow)
	task, err := svc.Add(ctx, lead.ID, lead.Name, domain.TaskDraft{Title: "Call", Due: "2024-02-01"})
	require.NoError(t, err)

	lead.Name = "New Name"
	seedLeads(t, s, lead)

	edited, err := svc.Edit(ctx, lead.ID, task.ID, domain.TaskPatch{
		Title:  ptr(" Call again "),
		Status: ptr(domain.TaskOverdue),
		Note:   ptr("no answer"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Call again", edited.Title)
	assert.Equal(t, "Call again", edited.Text)
	assert.Equal(t, domain.TaskOverdue, edited.Status)
	assert.Equal(t, "no answer", edited.Note)
	assert.Equal(t, "2024-02-01", edited.Due, "fields outside the patch are untouched")
	assert.Equal(t, "New Name", edited.LeadName)

	stored := assertViewsAgree(t, s, lead.ID)
	assert.Equal(t, *edited, stored[0])
}

func TestTaskEdit_Validation(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	lead := testutil.NewTestLead("Ali")
	seedLeads(t, s, lead)
	svc := newTestTaskService(s, s.uow)
	task, err := svc.Add(ctx, lead.ID, lead.Name, domain.TaskDraft{Title: "Call", Due: "2024-02-01"})
	require.NoError(t, err)

	patches := map[string]domain.TaskPatch{
		"blank title":    {Title: ptr(" ")},
		"bad due":        {Due: ptr("soon")},
		"unknown status": {Status: ptr(domain.TaskStatus("later"))},
		"unknown type":   {Type: ptr(domain.TaskType("fax"))},
	}
	for name, patch := range patches {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Edit(ctx, lead.ID, task.ID, patch)
			assert.ErrorIs(t, err, ErrValidation)

			stored := assertViewsAgree(t, s, lead.ID)
			assert.Equal(t, *task, stored[0])
		})
	}
}

func TestTaskEdit_UnknownTask(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	lead := testutil.NewTestLead("Ali")
	seedLeads(t, s, lead)
	svc := newTestTaskService(s, s.uow)

	_, err := svc.Edit(ctx, lead.ID, "task-nope", domain.TaskPatch{Note: ptr("x")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTaskToggleStatus(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	lead := testutil.NewTestLead("Ali")
	seedLeads(t, s, lead)
	svc := newTestTaskService(s, s.uow)
	task, err := svc.Add(ctx, lead.ID, lead.Name, domain.TaskDraft{Title: "Call", Due: "2024-02-01"})
	require.NoError(t, err)

	toggled, err := svc.ToggleStatus(ctx, lead.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskDone, toggled.Status)

	toggled, err = svc.ToggleStatus(ctx, lead.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskPending, toggled.Status)

	_, err = svc.Edit(ctx, lead.ID, task.ID, domain.TaskPatch{Status: ptr(domain.TaskOverdue)})
	require.NoError(t, err)
	toggled, err = svc.ToggleStatus(ctx, lead.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskDone, toggled.Status, "overdue toggles to done")

	toggled, err = svc.ToggleStatus(ctx, lead.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskPending, toggled.Status, "nothing toggles back into overdue")

	assertViewsAgree(t, s, lead.ID)
}

func TestTaskRemove(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	lead := testutil.NewTestLead("Ali")
	seedLeads(t, s, lead)
	svc := newTestTaskService(s, s.uow)
	a, err := svc.Add(ctx, lead.ID, lead.Name, domain.TaskDraft{Title: "a", Due: "2024-02-01"})
	require.NoError(t, err)
	b, err := svc.Add(ctx, lead.ID, lead.Name, domain.TaskDraft{Title: "b", Due: "2024-02-02"})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, lead.ID, a.ID))

	stored := assertViewsAgree(t, s, lead.ID)
	require.Len(t, stored, 1)
	assert.Equal(t, b.ID, stored[0].ID)

	assert.ErrorIs(t, svc.Remove(ctx, lead.ID, a.ID), repository.ErrNotFound)
}

func TestTaskRemove_LastTaskDoesNotResynthesize(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	lead := testutil.NewTestLead("Ali", testutil.WithUpcoming(
		domain.UpcomingEntry{Type: domain.TaskCall, Due: "2024-02-01", Text: "seed"},
	))
	seedLeads(t, s, lead)
	svc := newTestTaskService(s, s.uow)

	tasks, err := svc.Load(ctx, &lead)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.NoError(t, svc.Remove(ctx, lead.ID, tasks[0].ID))

	tasks, err = svc.Load(ctx, &lead)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskRemoveAllForLead_LeavesOtherLeads(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	a := testutil.NewTestLead("A")
	b := testutil.NewTestLead("B")
	seedLeads(t, s, a, b)
	svc := newTestTaskService(s, s.uow)
	_, err := svc.Add(ctx, a.ID, a.Name, domain.TaskDraft{Title: "x", Due: "2024-02-01"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, b.ID, b.Name, domain.TaskDraft{Title: "y", Due: "2024-02-01"})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveAllForLead(ctx, a.ID))

	global, err := s.tasks.ListByLead(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, global)
	_, ok, err := s.legacy.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Len(t, assertViewsAgree(t, s, b.ID), 1)
}

func TestTaskSave_ReplacesBothViews(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	lead := testutil.NewTestLead("Ali")
	seedLeads(t, s, lead)
	svc := newTestTaskService(s, s.uow)

	in := []domain.Task{{ID: "t1", Title: "Call", Due: "2024-02-01", Status: domain.TaskPending, Type: domain.TaskCall}}
	require.NoError(t, svc.Save(ctx, lead.ID, in))

	stored := assertViewsAgree(t, s, lead.ID)
	require.Len(t, stored, 1)
	assert.Equal(t, lead.ID, stored[0].LeadID)
	assert.Equal(t, "Call", stored[0].Text)
	assert.Empty(t, in[0].LeadID, "the caller's slice is not modified")
}

func TestTaskListAll_AgendaAcrossLeads(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	a := testutil.NewTestLead("A")
	b := testutil.NewTestLead("B")
	seedLeads(t, s, a, b)
	svc := newTestTaskService(s, s.uow)

	_, err := svc.Add(ctx, a.ID, a.Name, domain.TaskDraft{Title: "a-early", Due: "2024-01-01"})
	require.NoError(t, err)
	done, err := svc.Add(ctx, b.ID, b.Name, domain.TaskDraft{Title: "b-done", Due: "2024-06-01"})
	require.NoError(t, err)
	_, err = svc.ToggleStatus(ctx, b.ID, done.ID)
	require.NoError(t, err)
	_, err = svc.Add(ctx, b.ID, b.Name, domain.TaskDraft{Title: "b-late", Due: "2024-03-01"})
	require.NoError(t, err)

	all, err := svc.ListAll(ctx, domain.FilterAll)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"b-late", "a-early", "b-done"}, []string{all[0].Title, all[1].Title, all[2].Title})

	pending, err := svc.ListAll(ctx, domain.FilterPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

// TestTaskDualWrite_FailureLeavesBothViewsUnchanged injects a failure at every
// statement of an add and checks that neither view ever holds a partial write.
func TestTaskDualWrite_FailureLeavesBothViewsUnchanged(t *testing.T) {
	injected := errors.New("disk quota exceeded")

	// With one existing task an add runs: delete, insert, insert, slot put.
	for failOn := int32(1); failOn <= 4; failOn++ {
		t.Run(fmt.Sprintf("exec_%d", failOn), func(t *testing.T) {
			s := setupStores(t)
			ctx := context.Background()
			lead := testutil.NewTestLead("Ali")
			seedLeads(t, s, lead)

			seed := newTestTaskService(s, s.uow)
			existing, err := seed.Add(ctx, lead.ID, lead.Name, domain.TaskDraft{Title: "existing", Due: "2024-02-01"})
			require.NoError(t, err)

			uow := &testutil.FailOnNthExecUoW{DB: s.db, FailOn: failOn, Err: injected}
			svc := newTestTaskService(s, uow)

			task, err := svc.Add(ctx, lead.ID, lead.Name, domain.TaskDraft{Title: "new", Due: "2024-02-02"})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrStorageUnavailable)
			assert.ErrorIs(t, err, injected)
			assert.Nil(t, task)

			stored := assertViewsAgree(t, s, lead.ID)
			require.Len(t, stored, 1)
			assert.Equal(t, existing.ID, stored[0].ID)
		})
	}
}

func TestTaskObserver_RecordsUseCases(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	lead := testutil.NewTestLead("Ali")
	seedLeads(t, s, lead)
	obs := &recordingObserver{}
	svc := newTestTaskService(s, s.uow, obs)

	task, err := svc.Add(ctx, lead.ID, lead.Name, domain.TaskDraft{Title: "Call", Due: "2024-02-01"})
	require.NoError(t, err)

	ev := obs.last()
	assert.Equal(t, "add-task", ev.Name)
	assert.True(t, ev.Success)
	assert.Equal(t, lead.ID, ev.Fields["lead_id"])
	assert.Equal(t, task.ID, ev.Fields["task_id"])

	_, err = svc.Add(ctx, lead.ID, lead.Name, domain.TaskDraft{})
	require.Error(t, err)
	ev = obs.last()
	assert.False(t, ev.Success)
	assert.ErrorIs(t, ev.Err, ErrValidation)
}
