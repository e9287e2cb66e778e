package repository

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	legacyTaskSlotPrefix = "crm-lead-tasks-"
	noteSlotPrefix       = "crm-lead-notes-"
)

// LegacyTaskSlotKey returns the stable storage key of a lead's legacy task slot.
func LegacyTaskSlotKey(leadID string) string {
	return legacyTaskSlotPrefix + leadID
}

// NoteSlotKey returns the stable storage key of a lead's note slot.
func NoteSlotKey(leadID string) string {
	return noteSlotPrefix + leadID
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// encodeList marshals a slice as a JSON array, writing [] for nil.
func encodeList[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encoding list: %w", err)
	}
	return string(data), nil
}

// decodeList unmarshals a JSON array column. Blank columns decode to an empty list.
func decodeList[T any](raw string) ([]T, error) {
	items := []T{}
	if raw == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decoding list: %w", err)
	}
	return items, nil
}
