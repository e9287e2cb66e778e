package domain

import "time"

// NoteTimestampLayout formats the human-readable save time of a note.
const NoteTimestampLayout = "2006-01-02 15:04:05"

// Note is the single running note kept for a lead. It is stored as a
// one-element list so the slot format matches older data.
type Note struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// IsEmpty reports whether the note is an unsaved blank draft.
func (n Note) IsEmpty() bool {
	return n.Text == "" && n.Timestamp == ""
}

// NewNote stamps text with the given save time.
func NewNote(text string, savedAt time.Time) Note {
	return Note{Text: text, Timestamp: savedAt.Format(NoteTimestampLayout)}
}
