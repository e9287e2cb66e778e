package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/leadbook/internal/domain"
)

// FormatTaskList renders one lead's tasks under the active filter.
func FormatTaskList(tasks []domain.Task, filter domain.TaskFilter, now time.Time) string {
	return RenderBox("Tasks", buildTaskTable(tasks, filter, now, false))
}

// FormatAgenda renders tasks across all leads with a lead column.
func FormatAgenda(tasks []domain.Task, filter domain.TaskFilter, now time.Time) string {
	return RenderBox("Agenda", buildTaskTable(tasks, filter, now, true))
}

func buildTaskPanel(tasks []domain.Task, filter domain.TaskFilter, now time.Time) string {
	return Header("Tasks") + "\n" + buildTaskTable(tasks, filter, now, false)
}

func buildTaskTable(tasks []domain.Task, filter domain.TaskFilter, now time.Time, withLead bool) string {
	var b strings.Builder
	b.WriteString(FilterBar(filter) + "\n\n")

	if len(tasks) == 0 {
		b.WriteString(Dim("No tasks."))
		return b.String()
	}

	headers := []string{"ID", "TITLE", "TYPE", "STATUS", "DUE"}
	if withLead {
		headers = append([]string{"LEAD"}, headers...)
	}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		title := t.Title
		if t.Status == domain.TaskDone {
			title = Dim(title)
		} else {
			title = Bold(title)
		}
		if t.Remind {
			title += " " + StyleYellow.Render("⏰")
		}
		row := []string{
			Dim(t.ID),
			title,
			TaskTypeBadge(t.Type),
			TaskStatusPill(t.Status),
			DueCell(t, now),
		}
		if withLead {
			row = append([]string{domain.CoalesceStr(t.LeadName, t.LeadID)}, row...)
		}
		rows = append(rows, row)
	}
	b.WriteString(strings.TrimRight(RenderTable(headers, rows), "\n"))
	return b.String()
}

// FilterBar shows the four filters with the active one highlighted.
func FilterBar(active domain.TaskFilter) string {
	if active == "" {
		active = domain.FilterAll
	}
	filters := []domain.TaskFilter{domain.FilterAll, domain.FilterPending, domain.FilterDone, domain.FilterOverdue}
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		if f == active {
			parts = append(parts, StyleHeader.Render(fmt.Sprintf("[%s]", f)))
			continue
		}
		parts = append(parts, Dim(string(f)))
	}
	return strings.Join(parts, " ")
}

// FormatTaskLine is a one-line confirmation for a created or changed task.
func FormatTaskLine(verb string, t *domain.Task) string {
	return fmt.Sprintf("%s %s %s %s", StyleGreen.Render(verb), Bold(t.Title), TaskStatusPill(t.Status), Dim(t.ID))
}
