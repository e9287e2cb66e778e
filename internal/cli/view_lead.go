package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/leadbook/internal/cli/formatter"
	"github.com/alexanderramin/leadbook/internal/contact"
	"github.com/alexanderramin/leadbook/internal/domain"
	"github.com/alexanderramin/leadbook/internal/phone"
	"github.com/alexanderramin/leadbook/internal/repository"
	"github.com/alexanderramin/leadbook/internal/scheduler"
	"github.com/alexanderramin/leadbook/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

type leadViewKeys struct {
	Up       key.Binding
	Down     key.Binding
	Filter   key.Binding
	Toggle   key.Binding
	Delete   key.Binding
	Confirm  key.Binding
	Note     key.Binding
	Save     key.Binding
	Cancel   key.Binding
	Call     key.Binding
	SMS      key.Binding
	WhatsApp key.Binding
	Copy     key.Binding
	Quit     key.Binding
}

func defaultLeadViewKeys() leadViewKeys {
	return leadViewKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle done")),
		Delete:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete task")),
		Confirm:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
		Note:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "edit note")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save note")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Call:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "call")),
		SMS:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sms")),
		WhatsApp: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "whatsapp")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy number")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type leadLoadedMsg struct {
	lead  *domain.Lead
	tasks []domain.Task
	note  domain.Note
	err   error
}

type tasksChangedMsg struct {
	tasks  []domain.Task
	status string
	err    error
}

type noteSavedMsg struct {
	note domain.Note
	err  error
}

type dispatchedMsg struct {
	fallback contact.Fallback
	err      error
}

type copiedMsg struct {
	value string
	err   error
}

// leadView is the interactive lead profile: tasks under a cycling filter,
// the running note with a save spinner, and contact shortcuts.
type leadView struct {
	app    *App
	leadID string
	keys   leadViewKeys

	lead   *domain.Lead
	tasks  []domain.Task
	filter domain.TaskFilter
	cursor int
	note   domain.Note

	loading  bool
	notFound bool
	err      error

	editing bool
	saving  bool
	editor  textarea.Model
	spinner spinner.Model

	confirmDelete bool
	fallback      *contact.Fallback
	status        string
	quitting      bool
}

func newLeadView(app *App, leadID string) *leadView {
	editor := textarea.New()
	editor.Placeholder = "Write a note..."
	editor.SetHeight(4)
	editor.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StylePurple

	return &leadView{
		app:     app,
		leadID:  leadID,
		keys:    defaultLeadViewKeys(),
		filter:  domain.FilterAll,
		loading: true,
		editor:  editor,
		spinner: sp,
	}
}

func (v *leadView) Init() tea.Cmd {
	return v.loadLead()
}

func (v *leadView) loadLead() tea.Cmd {
	app, id := v.app, v.leadID
	return func() tea.Msg {
		ctx := context.Background()
		lead, err := app.Leads.GetByID(ctx, id)
		if err != nil {
			return leadLoadedMsg{err: err}
		}
		tasks, err := app.Tasks.Load(ctx, lead)
		if err != nil {
			return leadLoadedMsg{err: err}
		}
		note, err := app.Notes.Load(ctx, lead)
		return leadLoadedMsg{lead: lead, tasks: tasks, note: note, err: err}
	}
}

func (v *leadView) visible() []domain.Task {
	return scheduler.VisibleTasks(v.tasks, v.filter)
}

func (v *leadView) selected() (domain.Task, bool) {
	visible := v.visible()
	if v.cursor < 0 || v.cursor >= len(visible) {
		return domain.Task{}, false
	}
	return visible[v.cursor], true
}

func (v *leadView) clampCursor() {
	n := len(v.visible())
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

func (v *leadView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.editor.SetWidth(min(max(msg.Width-8, 20), 100))
		return v, nil

	case leadLoadedMsg:
		v.loading = false
		if errors.Is(msg.err, repository.ErrNotFound) {
			v.notFound = true
			return v, nil
		}
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.lead = msg.lead
		v.tasks = msg.tasks
		v.note = msg.note
		return v, nil

	case tasksChangedMsg:
		if msg.err != nil {
			v.status = formatter.StyleRed.Render("Error: " + msg.err.Error())
			return v, nil
		}
		v.tasks = msg.tasks
		v.status = msg.status
		v.clampCursor()
		return v, nil

	case noteSavedMsg:
		v.saving = false
		if msg.err != nil {
			v.status = formatter.StyleRed.Render("Note not saved: " + msg.err.Error())
			return v, nil
		}
		v.note = msg.note
		v.editing = false
		v.editor.Blur()
		v.status = formatter.StyleGreen.Render("Note saved")
		return v, nil

	case dispatchedMsg:
		if msg.err != nil {
			v.fallback = nil
			v.status = formatter.StyleYellow.Render(msg.err.Error())
			return v, nil
		}
		fb := msg.fallback
		v.fallback = &fb
		v.status = ""
		return v, nil

	case copiedMsg:
		if msg.err != nil {
			v.status = formatter.StyleYellow.Render("Copy failed: " + msg.err.Error())
			return v, nil
		}
		v.status = formatter.StyleGreen.Render("Copied " + msg.value)
		return v, nil

	case spinner.TickMsg:
		if !v.saving {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	if v.editing {
		var cmd tea.Cmd
		v.editor, cmd = v.editor.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *leadView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		v.quitting = true
		return v, tea.Quit
	}
	if v.loading {
		return v, nil
	}
	if v.notFound || v.err != nil {
		if key.Matches(msg, v.keys.Quit, v.keys.Cancel) {
			v.quitting = true
			return v, tea.Quit
		}
		return v, nil
	}
	if v.editing {
		return v.handleEditorKey(msg)
	}
	if v.confirmDelete {
		v.confirmDelete = false
		if key.Matches(msg, v.keys.Confirm) {
			return v, v.removeSelected()
		}
		v.status = formatter.Dim("Delete cancelled")
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		v.quitting = true
		return v, tea.Quit
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.visible())-1 {
			v.cursor++
		}
	case key.Matches(msg, v.keys.Filter):
		v.filter = scheduler.CycleFilter(v.filter)
		v.cursor = 0
	case key.Matches(msg, v.keys.Toggle):
		return v, v.toggleSelected()
	case key.Matches(msg, v.keys.Delete):
		if t, ok := v.selected(); ok {
			v.confirmDelete = true
			v.status = formatter.StyleYellow.Render(fmt.Sprintf("Delete %q? y to confirm", t.Title))
		}
	case key.Matches(msg, v.keys.Note):
		v.editing = true
		v.editor.SetValue(v.note.Text)
		v.status = ""
		return v, v.editor.Focus()
	case key.Matches(msg, v.keys.Call):
		return v, v.dispatch(contact.ChannelCall)
	case key.Matches(msg, v.keys.SMS):
		return v, v.dispatch(contact.ChannelSMS)
	case key.Matches(msg, v.keys.WhatsApp):
		return v, v.dispatch(contact.ChannelWhatsApp)
	case key.Matches(msg, v.keys.Copy):
		return v, v.copyNumber()
	}
	return v, nil
}

func (v *leadView) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Save):
		// The save action stays disabled while a save is running.
		if v.saving {
			return v, nil
		}
		text := v.editor.Value()
		if strings.TrimSpace(text) == "" {
			v.status = formatter.StyleYellow.Render("Note is empty")
			return v, nil
		}
		v.saving = true
		v.status = ""
		return v, tea.Batch(v.spinner.Tick, v.saveNote(text))
	case key.Matches(msg, v.keys.Cancel):
		if v.saving {
			return v, nil
		}
		v.editing = false
		v.editor.Blur()
		return v, nil
	}

	if v.saving {
		return v, nil
	}
	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

func (v *leadView) reloadAfter(status string, op func(ctx context.Context) error) tea.Cmd {
	app, lead := v.app, *v.lead
	return func() tea.Msg {
		ctx := context.Background()
		if err := op(ctx); err != nil {
			return tasksChangedMsg{err: err}
		}
		tasks, err := app.Tasks.Load(ctx, &lead)
		return tasksChangedMsg{tasks: tasks, status: status, err: err}
	}
}

func (v *leadView) toggleSelected() tea.Cmd {
	t, ok := v.selected()
	if !ok {
		return nil
	}
	app, leadID := v.app, v.lead.ID
	return v.reloadAfter("Updated "+t.Title, func(ctx context.Context) error {
		_, err := app.Tasks.ToggleStatus(ctx, leadID, t.ID)
		return err
	})
}

func (v *leadView) removeSelected() tea.Cmd {
	t, ok := v.selected()
	if !ok {
		return nil
	}
	app, leadID := v.app, v.lead.ID
	return v.reloadAfter("Removed "+t.Title, func(ctx context.Context) error {
		return app.Tasks.Remove(ctx, leadID, t.ID)
	})
}

func (v *leadView) saveNote(text string) tea.Cmd {
	notes, leadID := v.app.Notes, v.lead.ID
	return func() tea.Msg {
		note, err := notes.Save(context.Background(), leadID, text)
		if errors.Is(err, service.ErrSaveInFlight) {
			err = errors.New("a save is already running")
		}
		return noteSavedMsg{note: note, err: err}
	}
}

func (v *leadView) dispatch(ch contact.Channel) tea.Cmd {
	app, lead := v.app, *v.lead
	return func() tea.Msg {
		fb, err := dispatch(app, ch, &lead, "")
		return dispatchedMsg{fallback: fb, err: err}
	}
}

func (v *leadView) copyNumber() tea.Cmd {
	number := phone.ToDialFormat(v.lead.Phone)
	if number == "" {
		v.status = formatter.StyleYellow.Render("No phone number to copy")
		return nil
	}
	d := v.app.Contact
	return func() tea.Msg {
		return copiedMsg{value: number, err: d.Copy(number)}
	}
}

func (v *leadView) shortHelp() []key.Binding {
	switch {
	case v.notFound || v.err != nil:
		return []key.Binding{v.keys.Quit}
	case v.editing:
		return []key.Binding{v.keys.Save, v.keys.Cancel}
	default:
		return []key.Binding{
			v.keys.Filter, v.keys.Toggle, v.keys.Delete, v.keys.Note,
			v.keys.Call, v.keys.SMS, v.keys.WhatsApp, v.keys.Copy, v.keys.Quit,
		}
	}
}

func (v *leadView) View() string {
	if v.quitting {
		return ""
	}
	if v.loading {
		return formatter.Dim("Loading...")
	}

	var b strings.Builder
	switch {
	case v.notFound:
		b.WriteString(formatter.RenderBox("Lead", "Lead not found.\n"+formatter.Dim("It may have been deleted.")))
	case v.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: " + v.err.Error()))
	default:
		b.WriteString(v.renderProfile())
	}

	if v.status != "" {
		b.WriteString("\n" + v.status)
	}

	hints := make([]string, 0, len(v.shortHelp()))
	for _, k := range v.shortHelp() {
		hints = append(hints, formatter.Dim(k.Help().Key+": "+k.Help().Desc))
	}
	b.WriteString("\n\n" + strings.Join(hints, "  "))
	return b.String()
}

func (v *leadView) renderProfile() string {
	l := v.lead
	var b strings.Builder

	b.WriteString(formatter.Bold(l.Name) + "  " + formatter.LeadStatusPill(l.Status) + "  " + formatter.ScoreStars(l.Score) + "\n")
	b.WriteString(formatter.Dim("Phone ") + formatter.OrDash(phone.Display(l.Phone, v.app.Region)) +
		formatter.Dim("   Email ") + formatter.OrDash(l.Email) + "\n\n")

	b.WriteString(formatter.Header("Tasks") + "\n")
	counts := scheduler.FilterCounts(v.tasks)
	b.WriteString(formatter.FilterBar(v.filter) +
		formatter.Dim(fmt.Sprintf("  (%d of %d)", counts[v.filter], counts[domain.FilterAll])) + "\n")
	visible := v.visible()
	if len(visible) == 0 {
		b.WriteString(formatter.Dim("No tasks.") + "\n")
	}
	now := v.app.now()
	for i, t := range visible {
		marker := "  "
		if i == v.cursor {
			marker = formatter.StyleHeader.Render("▸ ")
		}
		b.WriteString(fmt.Sprintf("%s%s %s  %s  %s\n",
			marker, formatter.TaskStatusPill(t.Status), formatter.Bold(t.Title),
			formatter.TaskTypeBadge(t.Type), formatter.DueCell(t, now)))
	}

	b.WriteString("\n" + formatter.Header("Note") + "\n")
	switch {
	case v.saving:
		b.WriteString(v.spinner.View() + " " + formatter.Dim("Saving note...") + "\n")
	case v.editing:
		b.WriteString(v.editor.View() + "\n")
	case v.note.Text == "":
		b.WriteString(formatter.Dim("No note yet.") + "\n")
	default:
		b.WriteString(v.note.Text + "\n")
		if v.note.Timestamp != "" {
			b.WriteString(formatter.Dim("saved "+v.note.Timestamp) + "\n")
		}
	}

	if v.fallback != nil {
		b.WriteString("\n" + formatter.FormatFallback(*v.fallback))
	}
	return strings.TrimRight(b.String(), "\n")
}
