package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/leadbook/internal/domain"
	"github.com/google/uuid"
)

// Converted holds domain records ready for persistence. Task and note maps
// are keyed by lead id.
type Converted struct {
	Leads       []domain.Lead
	TaskSlots   map[string][]domain.Task
	NoteSlots   map[string][]domain.Note
	GlobalTasks map[string][]domain.Task
}

// Convert transforms a validated Dump into domain records.
// Call ValidateDump first; Convert assumes the dump is valid.
func Convert(d *Dump) *Converted {
	out := &Converted{
		Leads:       make([]domain.Lead, 0, len(d.Leads)),
		TaskSlots:   make(map[string][]domain.Task, len(d.TaskSlots)),
		NoteSlots:   make(map[string][]domain.Note, len(d.NoteSlots)),
		GlobalTasks: make(map[string][]domain.Task),
	}

	names := make(map[string]string, len(d.Leads))
	for _, l := range d.Leads {
		lead := convertLead(l)
		names[lead.ID] = lead.Name
		out.Leads = append(out.Leads, lead)
	}

	// Slot payloads are kept as stored. Missing fields are filled when the
	// slot is adopted on first load.
	for leadID, tasks := range d.TaskSlots {
		converted := make([]domain.Task, 0, len(tasks))
		for _, t := range tasks {
			converted = append(converted, convertTask(t, leadID, t.LeadName))
		}
		out.TaskSlots[leadID] = converted
	}

	for leadID, notes := range d.NoteSlots {
		converted := make([]domain.Note, 0, len(notes))
		for _, n := range notes {
			converted = append(converted, domain.Note{Text: n.Text, Timestamp: n.Timestamp})
		}
		out.NoteSlots[leadID] = converted
	}

	// Global rows need a complete key and a valid status to be stored.
	for _, t := range d.GlobalTasks {
		task := convertTask(t, t.LeadID, domain.CoalesceStr(t.LeadName, names[t.LeadID]))
		if task.ID == "" {
			task.ID = fmt.Sprintf("task-%s-%s", t.LeadID, strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
		}
		if task.Status == "" {
			task.Status = domain.TaskPending
		}
		task.Type = domain.CoalesceTaskType(task.Type)
		out.GlobalTasks[t.LeadID] = append(out.GlobalTasks[t.LeadID], task)
	}

	return out
}

func convertLead(l LeadImport) domain.Lead {
	lead := domain.Lead{
		ID:              l.ID,
		Name:            l.Name,
		Phone:           l.Phone,
		Email:           l.Email,
		Country:         l.Country,
		Status:          domain.LeadStatus(domain.CoalesceStr(l.Status, string(domain.LeadCold))),
		LastInteraction: l.LastInteraction,
		Score:           3,
	}
	if l.EstimatedValue != nil {
		lead.EstimatedValue = *l.EstimatedValue
	}
	if l.Score != nil {
		lead.Score = *l.Score
	}
	for _, n := range l.Notes {
		lead.Notes = append(lead.Notes, domain.InlineNote{Text: n.Text, Timestamp: n.Timestamp})
	}
	for _, e := range l.Interactions {
		lead.Interactions = append(lead.Interactions, domain.Interaction{
			Type: domain.TaskType(e.Type), Text: e.Text, Timestamp: e.Timestamp,
		})
	}
	for _, e := range l.Upcoming {
		lead.Upcoming = append(lead.Upcoming, domain.UpcomingEntry{
			Type: domain.TaskType(e.Type), Due: e.Due, Text: e.Text,
		})
	}
	return lead
}

func convertTask(t TaskImport, leadID, leadName string) domain.Task {
	task := domain.Task{
		ID:       t.ID,
		LeadID:   leadID,
		LeadName: leadName,
		Due:      t.Due,
		Status:   domain.TaskStatus(t.Status),
		Note:     t.Note,
		Type:     domain.TaskType(t.Type),
		Remind:   t.Remind,
	}
	task.SetTitle(domain.CoalesceStr(t.Title, t.Text))
	return task
}
