package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/alexanderramin/leadbook/internal/domain"
	"github.com/alexanderramin/leadbook/internal/teatest"
	"github.com/alexanderramin/leadbook/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedViewLead stores one lead with two pending tasks and one done task.
func seedViewLead(t *testing.T, app *App, deps *testDeps) domain.Lead {
	t.Helper()
	lead := seedLeads(t, deps, testutil.NewTestLead("Ali Rezaei", testutil.WithEmail("ali@example.com")))[0]
	require.NoError(t, app.Tasks.Save(context.Background(), lead.ID, []domain.Task{
		testutil.NewTestTask("t-early", lead.ID, "Early call", testutil.WithDue("2024-01-12")),
		testutil.NewTestTask("t-late", lead.ID, "Later call", testutil.WithDue("2024-01-20")),
		testutil.NewTestTask("t-done", lead.ID, "Finished call", testutil.WithTaskStatus(domain.TaskDone)),
	}))
	return lead
}

func newViewDriver(t *testing.T, app *App, leadID string) *teatest.Driver {
	t.Helper()
	d := teatest.New(t, newLeadView(app, leadID), teatest.WithSize(120, 40))
	d.DrainInit()
	return d
}

func viewOf(d *teatest.Driver) string {
	return stripANSI(d.View())
}

func (v *leadView) titles() []string {
	visible := v.visible()
	out := make([]string, len(visible))
	for i, t := range visible {
		out[i] = t.Title
	}
	return out
}

func TestLeadView_LoadsProfileWithSortedTasks(t *testing.T) {
	app, deps := testApp(t)
	lead := seedViewLead(t, app, deps)

	d := newViewDriver(t, app, lead.ID)
	out := viewOf(d)

	assert.Contains(t, out, "Ali Rezaei")
	assert.Contains(t, out, "+98 912 345 6789")
	assert.Contains(t, out, "ali@example.com")
	assert.Contains(t, out, "No note yet.")

	later := strings.Index(out, "Later call")
	early := strings.Index(out, "Early call")
	done := strings.Index(out, "Finished call")
	require.True(t, later >= 0 && early >= 0 && done >= 0, out)
	assert.Less(t, later, early, "pending tasks run latest due first")
	assert.Less(t, early, done, "done tasks sink to the bottom")
	assert.Contains(t, out, "▸ ○ Pending Later call")
}

func TestLeadView_FilterCycles(t *testing.T) {
	app, deps := testApp(t)
	lead := seedViewLead(t, app, deps)
	d := newViewDriver(t, app, lead.ID)
	v := d.Model.(*leadView)

	steps := []struct {
		filter domain.TaskFilter
		titles []string
	}{
		{domain.FilterPending, []string{"Later call", "Early call"}},
		{domain.FilterDone, []string{"Finished call"}},
		{domain.FilterOverdue, []string{}},
		{domain.FilterAll, []string{"Later call", "Early call", "Finished call"}},
	}
	assert.Contains(t, viewOf(d), "(3 of 3)")
	for _, step := range steps {
		d.PressKey('f')
		assert.Equal(t, step.filter, v.filter)
		assert.Equal(t, step.titles, v.titles())
	}

	d.PressKey('f')
	assert.Contains(t, viewOf(d), "(2 of 3)")
	d.PressKey('f')
	d.PressKey('f')
	assert.Contains(t, viewOf(d), "No tasks.")
}

func TestLeadView_ToggleSelectedTask(t *testing.T) {
	app, deps := testApp(t)
	lead := seedViewLead(t, app, deps)
	d := newViewDriver(t, app, lead.ID)

	d.PressDown()
	d.PressSpace()

	stored, err := deps.tasks.ListByLead(context.Background(), lead.ID)
	require.NoError(t, err)
	for _, task := range stored {
		if task.ID == "t-early" {
			assert.Equal(t, domain.TaskDone, task.Status)
		}
	}
	assert.Contains(t, viewOf(d), "Updated Early call")
}

func TestLeadView_DeleteNeedsConfirmation(t *testing.T) {
	app, deps := testApp(t)
	lead := seedViewLead(t, app, deps)
	d := newViewDriver(t, app, lead.ID)
	v := d.Model.(*leadView)

	d.PressKey('x')
	assert.Contains(t, viewOf(d), `Delete "Later call"? y to confirm`)
	d.PressKey('n')
	assert.Contains(t, viewOf(d), "Delete cancelled")
	assert.False(t, v.editing, "the cancelling key is not treated as a shortcut")
	assert.Len(t, v.tasks, 3)

	d.PressKey('x')
	d.PressKey('y')
	assert.Equal(t, []string{"Early call", "Finished call"}, v.titles())
	assert.Equal(t, 0, v.cursor)

	stored, err := deps.tasks.ListByLead(context.Background(), lead.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestLeadView_SaveNote(t *testing.T) {
	app, deps := testApp(t)
	lead := seedViewLead(t, app, deps)
	d := newViewDriver(t, app, lead.ID)
	v := d.Model.(*leadView)

	d.PressKey('n')
	require.True(t, v.editing)
	d.Type("call after 5")
	d.PressCtrl(tea.KeyCtrlS)

	assert.False(t, v.saving)
	assert.False(t, v.editing)
	out := viewOf(d)
	assert.Contains(t, out, "Note saved")
	assert.Contains(t, out, "call after 5")

	slot, ok, err := deps.notes.Get(context.Background(), lead.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, slot, 1)
	assert.Equal(t, "call after 5", slot[0].Text)
}

func TestLeadView_EmptyNoteIsNotSaved(t *testing.T) {
	app, deps := testApp(t)
	lead := seedViewLead(t, app, deps)
	d := newViewDriver(t, app, lead.ID)
	v := d.Model.(*leadView)

	d.PressKey('n')
	d.Type("   ")
	d.PressCtrl(tea.KeyCtrlS)

	assert.True(t, v.editing)
	assert.Contains(t, viewOf(d), "Note is empty")
	_, ok, err := deps.notes.Get(context.Background(), lead.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	d.PressEsc()
	assert.False(t, v.editing)
}

func TestLeadView_SaveDisabledWhileSaving(t *testing.T) {
	app, deps := testApp(t)
	lead := seedViewLead(t, app, deps)
	v := newLeadView(app, lead.ID)
	d := teatest.New(t, v)
	d.DrainInit()

	d.PressKey('n')
	d.Type("hello")
	v.saving = true

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.True(t, v.editing, "cancel is ignored while saving")
	assert.Contains(t, viewOf(d), "Saving note...")
}

func TestLeadView_CallShowsFallback(t *testing.T) {
	app, deps := testApp(t)
	lead := seedViewLead(t, app, deps)
	d := newViewDriver(t, app, lead.ID)

	d.PressKey('c')

	assert.Equal(t, []string{"tel:+989123456789"}, deps.opener.urls)
	out := viewOf(d)
	assert.Contains(t, out, "+989123456789")
	assert.Contains(t, out, "tel:+989123456789")
}

func TestLeadView_CallWithoutPhone(t *testing.T) {
	app, deps := testApp(t)
	lead := seedLeads(t, deps, testutil.NewTestLead("Ali", testutil.WithPhone("")))[0]
	d := newViewDriver(t, app, lead.ID)

	d.PressKey('c')
	assert.Empty(t, deps.opener.urls)
	assert.Contains(t, viewOf(d), "no phone number")

	d.PressKey('y')
	assert.Contains(t, viewOf(d), "No phone number to copy")
	assert.Empty(t, deps.clip.text)
}

func TestLeadView_CopyNumber(t *testing.T) {
	app, deps := testApp(t)
	lead := seedViewLead(t, app, deps)
	d := newViewDriver(t, app, lead.ID)

	d.PressKey('y')
	assert.Equal(t, "+989123456789", deps.clip.text)
	assert.Contains(t, viewOf(d), "Copied +989123456789")
}

func TestLeadView_NotFound(t *testing.T) {
	app, _ := testApp(t)
	d := newViewDriver(t, app, "L-missing")

	assert.Contains(t, viewOf(d), "Lead not found.")
	d.PressKey('f')
	assert.False(t, d.Quitting)
	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestLeadView_Quit(t *testing.T) {
	app, deps := testApp(t)
	lead := seedViewLead(t, app, deps)
	d := newViewDriver(t, app, lead.ID)

	d.PressKey('q')
	assert.True(t, d.Quitting)
	assert.Empty(t, d.View())
}
