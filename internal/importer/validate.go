package importer

import (
	"fmt"

	"github.com/alexanderramin/leadbook/internal/domain"
)

// ValidateDump checks a dump for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateDump(d *Dump) []error {
	var errs []error

	if !d.HasLeads {
		errs = append(errs, fmt.Errorf("%s is required", KeyLeads))
	}

	leadIDs := make(map[string]bool, len(d.Leads))
	errs = append(errs, validateLeads(d.Leads, leadIDs)...)

	for _, leadID := range SlotLeadIDs(d.TaskSlots) {
		prefix := PrefixLegacyTasks + leadID
		if !leadIDs[leadID] {
			errs = append(errs, fmt.Errorf("%s: lead %q not found in %s", prefix, leadID, KeyLeads))
		}
		errs = append(errs, validateTasks(prefix, d.TaskSlots[leadID], false, leadIDs)...)
	}

	for _, leadID := range SlotLeadIDs(d.NoteSlots) {
		if !leadIDs[leadID] {
			errs = append(errs, fmt.Errorf("%s%s: lead %q not found in %s", PrefixNotes, leadID, leadID, KeyLeads))
		}
	}

	errs = append(errs, validateTasks(KeyGlobalTasks, d.GlobalTasks, true, leadIDs)...)

	return errs
}

func validateLeads(leads []LeadImport, leadIDs map[string]bool) []error {
	var errs []error

	for i, l := range leads {
		prefix := fmt.Sprintf("%s[%d]", KeyLeads, i)

		if l.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if leadIDs[l.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, l.ID))
		} else {
			leadIDs[l.ID] = true
		}

		if l.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if l.Status != "" && !domain.ValidLeadStatuses[l.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, l.Status))
		}
		if l.Score != nil && (*l.Score < 1 || *l.Score > 5) {
			errs = append(errs, fmt.Errorf("%s.score: %d is outside 1-5", prefix, *l.Score))
		}
		if l.EstimatedValue != nil && *l.EstimatedValue < 0 {
			errs = append(errs, fmt.Errorf("%s.estimatedValue must be >= 0", prefix))
		}
		for j, u := range l.Upcoming {
			if u.Type != "" && !domain.ValidTaskTypes[u.Type] {
				errs = append(errs, fmt.Errorf("%s.upcoming[%d].type: invalid value %q", prefix, j, u.Type))
			}
		}
	}

	return errs
}

// validateTasks checks one task list. Global tasks carry their own leadId and
// must be unique per lead; slot tasks take the lead from the slot key.
func validateTasks(prefix string, tasks []TaskImport, global bool, leadIDs map[string]bool) []error {
	var errs []error
	seen := make(map[string]bool, len(tasks))

	for i, t := range tasks {
		p := fmt.Sprintf("%s[%d]", prefix, i)

		if t.Title == "" && t.Text == "" {
			errs = append(errs, fmt.Errorf("%s: title or text is required", p))
		}
		if t.Status != "" && !domain.ValidTaskStatuses[t.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", p, t.Status))
		}
		if t.Type != "" && !domain.ValidTaskTypes[t.Type] {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", p, t.Type))
		}
		if !global {
			continue
		}

		if t.LeadID == "" {
			errs = append(errs, fmt.Errorf("%s.leadId is required", p))
		} else if !leadIDs[t.LeadID] {
			errs = append(errs, fmt.Errorf("%s.leadId: lead %q not found in %s", p, t.LeadID, KeyLeads))
		}
		if t.ID != "" {
			key := t.LeadID + "\x00" + t.ID
			if seen[key] {
				errs = append(errs, fmt.Errorf("%s.id: duplicate id %q for lead %q", p, t.ID, t.LeadID))
			}
			seen[key] = true
		}
	}

	return errs
}
