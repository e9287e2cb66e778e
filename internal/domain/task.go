package domain

import (
	"strings"
	"time"
)

// Task is a scheduled follow-up attached to a lead. Text is a legacy alias
// of Title and is kept equal to it on every write.
type Task struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Text     string     `json:"text,omitempty"`
	LeadID   string     `json:"leadId"`
	LeadName string     `json:"leadName,omitempty"`
	Due      string     `json:"due"`
	Status   TaskStatus `json:"status"`
	Note     string     `json:"note,omitempty"`
	Type     TaskType   `json:"type,omitempty"`
	Remind   bool       `json:"remind,omitempty"`
}

// TaskDraft holds the user-entered fields of a task that is not yet created.
type TaskDraft struct {
	Title  string
	Due    string
	Type   TaskType
	Note   string
	Remind bool
}

// TaskPatch lists the fields an edit changes. Nil fields are left untouched.
type TaskPatch struct {
	Title  *string
	Due    *string
	Status *TaskStatus
	Note   *string
	Type   *TaskType
	Remind *bool
}

// dueLayouts are tried in order. Browser datetime inputs produce the
// minute-precision form without a zone.
var dueLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDue parses an ISO-8601 due timestamp. Zone-less values are read as UTC.
func ParseDue(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dueLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DueTime returns the parsed due timestamp, or the zero time when it does not parse.
func (t *Task) DueTime() time.Time {
	due, _ := ParseDue(t.Due)
	return due
}

// SetTitle updates Title and its legacy alias together.
func (t *Task) SetTitle(title string) {
	t.Title = title
	t.Text = title
}

// ToggleStatus flips between pending and done. Overdue tasks become done;
// nothing toggles back into overdue.
func (t *Task) ToggleStatus() {
	if t.Status == TaskDone {
		t.Status = TaskPending
		return
	}
	t.Status = TaskDone
}

// Apply merges a patch into the task.
func (t *Task) Apply(p TaskPatch) {
	if p.Title != nil {
		t.SetTitle(*p.Title)
	}
	if p.Due != nil {
		t.Due = *p.Due
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Note != nil {
		t.Note = *p.Note
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Remind != nil {
		t.Remind = *p.Remind
	}
}

// Matches reports whether the task is shown under the given filter.
func (t *Task) Matches(f TaskFilter) bool {
	return f == FilterAll || f == "" || TaskFilter(t.Status) == f
}
