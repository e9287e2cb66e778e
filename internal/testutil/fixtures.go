package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/leadbook/internal/domain"
)

var testLeadCounter atomic.Int64

// Lead options
type LeadOption func(*domain.Lead)

func WithLeadID(id string) LeadOption {
	return func(l *domain.Lead) {
		l.ID = id
	}
}

func WithPhone(phone string) LeadOption {
	return func(l *domain.Lead) {
		l.Phone = phone
	}
}

func WithEmail(email string) LeadOption {
	return func(l *domain.Lead) {
		l.Email = email
	}
}

func WithLeadStatus(s domain.LeadStatus) LeadOption {
	return func(l *domain.Lead) {
		l.Status = s
	}
}

func WithEstimatedValue(v int64) LeadOption {
	return func(l *domain.Lead) {
		l.EstimatedValue = v
	}
}

func WithScore(score int) LeadOption {
	return func(l *domain.Lead) {
		l.Score = score
	}
}

func WithUpcoming(entries ...domain.UpcomingEntry) LeadOption {
	return func(l *domain.Lead) {
		l.Upcoming = append(l.Upcoming, entries...)
	}
}

func WithInlineNotes(texts ...string) LeadOption {
	return func(l *domain.Lead) {
		for _, text := range texts {
			l.Notes = append(l.Notes, domain.InlineNote{Text: text, Timestamp: "2024-01-01 09:00:00"})
		}
	}
}

// NewTestLead builds a valid cold lead with a unique L-xxxx id.
func NewTestLead(name string, opts ...LeadOption) domain.Lead {
	n := testLeadCounter.Add(1)
	l := domain.Lead{
		ID:              fmt.Sprintf("L-%04d", 1000+n),
		Name:            name,
		Phone:           "0912 345 6789",
		Country:         "IR",
		Status:          domain.LeadCold,
		LastInteraction: "yesterday",
		EstimatedValue:  1000000,
		Score:           3,
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithDue(due string) TaskOption {
	return func(t *domain.Task) {
		t.Due = due
	}
}

func WithTaskType(tt domain.TaskType) TaskOption {
	return func(t *domain.Task) {
		t.Type = tt
	}
}

func WithTaskNote(note string) TaskOption {
	return func(t *domain.Task) {
		t.Note = note
	}
}

// NewTestTask builds a pending call task for leadID.
func NewTestTask(id, leadID, title string, opts ...TaskOption) domain.Task {
	t := domain.Task{
		ID:     id,
		Title:  title,
		Text:   title,
		LeadID: leadID,
		Due:    "2024-01-10T09:00:00Z",
		Status: domain.TaskPending,
		Type:   domain.TaskCall,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}
