package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/leadbook/internal/db"
	"github.com/alexanderramin/leadbook/internal/domain"
	"github.com/alexanderramin/leadbook/internal/repository"
)

type noteService struct {
	notes    repository.NoteSlotStore
	uow      db.UnitOfWork
	latency  time.Duration
	observer UseCaseObserver
	now      func() time.Time
	sleep    func(time.Duration)

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewNoteService builds the note repository. Every accepted save waits for
// latency before writing; the lead's save stays blocked until it completes.
func NewNoteService(notes repository.NoteSlotStore, uow db.UnitOfWork, latency time.Duration, observers ...UseCaseObserver) NoteService {
	return &noteService{
		notes:    notes,
		uow:      uow,
		latency:  latency,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
		sleep:    time.Sleep,
		inFlight: make(map[string]bool),
	}
}

// Load returns the stored note, else the lead's latest inline note, else an
// empty draft. Nothing is written.
func (s *noteService) Load(ctx context.Context, lead *domain.Lead) (domain.Note, error) {
	stored, err := s.stored(ctx, s.notes, lead.ID)
	if err != nil {
		return domain.Note{}, err
	}
	if !stored.IsEmpty() {
		return stored, nil
	}
	if inline, ok := lead.LatestInlineNote(); ok {
		return domain.Note{Text: inline.Text, Timestamp: inline.Timestamp}, nil
	}
	return domain.Note{}, nil
}

func (s *noteService) stored(ctx context.Context, notes repository.NoteSlotStore, leadID string) (domain.Note, error) {
	slot, ok, err := notes.Get(ctx, leadID)
	if err != nil {
		return domain.Note{}, storageErr(err)
	}
	if !ok || len(slot) == 0 {
		return domain.Note{}, nil
	}
	return slot[len(slot)-1], nil
}

// Saving reports whether a save for leadID is in flight.
func (s *noteService) Saving(leadID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[leadID]
}

func (s *noteService) begin(leadID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[leadID] {
		return false
	}
	s.inFlight[leadID] = true
	return true
}

func (s *noteService) end(leadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, leadID)
}

// Save replaces the lead's note with text. Blank text is rejected and the
// prior stored note is returned unchanged.
func (s *noteService) Save(ctx context.Context, leadID, text string) (note domain.Note, err error) {
	startedAt := time.Now()
	defer observe(ctx, s.observer, "save-note", startedAt, map[string]any{"lead_id": leadID}, &err)

	text = strings.TrimSpace(text)
	if text == "" {
		prior, perr := s.stored(ctx, s.notes, leadID)
		if perr != nil {
			return domain.Note{}, perr
		}
		return prior, validationErrorf("note text is empty")
	}

	if !s.begin(leadID) {
		return domain.Note{}, ErrSaveInFlight
	}
	defer s.end(leadID)

	s.sleep(s.latency)

	note = domain.NewNote(text, s.now())
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteLeadCollection(tx).GetByID(ctx, leadID); err != nil {
			return err
		}
		return repository.NewSQLiteNoteSlotStore(tx).Put(ctx, leadID, []domain.Note{note})
	})
	if err != nil {
		return domain.Note{}, storageErr(err)
	}
	return note, nil
}
