package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Storage keys of the browser-storage layout a dump is taken from.
const (
	KeyLeads          = "crm-leads"
	KeyGlobalTasks    = "crm-tasks"
	PrefixLegacyTasks = "crm-lead-tasks-"
	PrefixNotes       = "crm-lead-notes-"
)

// Dump is a parsed browser-storage export. Slot maps are keyed by lead id.
type Dump struct {
	Leads       []LeadImport
	HasLeads    bool
	TaskSlots   map[string][]TaskImport
	NoteSlots   map[string][]NoteImport
	GlobalTasks []TaskImport
	// Ignored lists keys that belong to other parts of the application.
	Ignored []string
}

// LeadImport is one entry of the crm-leads array.
type LeadImport struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Phone           string        `json:"phone,omitempty"`
	Email           string        `json:"email,omitempty"`
	Country         string        `json:"country,omitempty"`
	Status          string        `json:"status,omitempty"`
	LastInteraction string        `json:"lastInteraction,omitempty"`
	EstimatedValue  *int64        `json:"estimatedValue,omitempty"`
	Score           *int          `json:"score,omitempty"`
	Notes           []NoteImport  `json:"notes,omitempty"`
	Interactions    []EntryImport `json:"interactions,omitempty"`
	Upcoming        []EntryImport `json:"upcoming,omitempty"`
}

// EntryImport covers both inline interaction and upcoming entries.
type EntryImport struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	Due       string `json:"due,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// TaskImport is one task of a legacy slot or of the global crm-tasks array.
type TaskImport struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title,omitempty"`
	Text     string `json:"text,omitempty"`
	LeadID   string `json:"leadId,omitempty"`
	LeadName string `json:"leadName,omitempty"`
	Due      string `json:"due,omitempty"`
	Status   string `json:"status,omitempty"`
	Note     string `json:"note,omitempty"`
	Type     string `json:"type,omitempty"`
	Remind   bool   `json:"remind,omitempty"`
}

// NoteImport is one note of a note slot or of a lead's inline notes.
type NoteImport struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
}

// LoadDump reads and parses a storage dump file.
func LoadDump(path string) (*Dump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDump(data)
}

// ParseDump parses a JSON object of storage key → value. Values may be the
// stored string itself (JSON inside a JSON string) or already-decoded JSON.
func ParseDump(data []byte) (*Dump, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing dump: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := &Dump{
		TaskSlots: make(map[string][]TaskImport),
		NoteSlots: make(map[string][]NoteImport),
	}
	for _, key := range keys {
		value, err := unwrapStored(raw[key])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}

		switch {
		case key == KeyLeads:
			if err := json.Unmarshal(value, &d.Leads); err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			d.HasLeads = true
		case key == KeyGlobalTasks:
			if err := json.Unmarshal(value, &d.GlobalTasks); err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
		case strings.HasPrefix(key, PrefixLegacyTasks):
			var tasks []TaskImport
			if err := json.Unmarshal(value, &tasks); err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			d.TaskSlots[strings.TrimPrefix(key, PrefixLegacyTasks)] = tasks
		case strings.HasPrefix(key, PrefixNotes):
			var notes []NoteImport
			if err := json.Unmarshal(value, &notes); err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			d.NoteSlots[strings.TrimPrefix(key, PrefixNotes)] = notes
		default:
			d.Ignored = append(d.Ignored, key)
		}
	}
	return d, nil
}

// unwrapStored returns the JSON document held by a dump value, decoding one
// level of string quoting when present. A stored null reads as an empty list.
func unwrapStored(value json.RawMessage) ([]byte, error) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []byte("[]"), nil
	}
	if trimmed[0] != '"' {
		return trimmed, nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, err
	}
	if strings.TrimSpace(s) == "" {
		return []byte("[]"), nil
	}
	return []byte(s), nil
}

// SlotLeadIDs returns the lead ids of m in sorted order.
func SlotLeadIDs[T any](m map[string][]T) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
