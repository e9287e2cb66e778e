package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/leadbook/internal/domain"
	"github.com/alexanderramin/leadbook/internal/repository"
	"github.com/alexanderramin/leadbook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNoteService(s testStores, latency time.Duration) *noteService {
	svc := NewNoteService(s.notes, s.uow, latency).(*noteService)
	svc.now = func() time.Time { return fixedNow }
	svc.sleep = func(time.Duration) {}
	return svc
}

func TestNoteLoad_Resolution(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	svc := newTestNoteService(s, 0)

	bare := testutil.NewTestLead("Bare")
	note, err := svc.Load(ctx, &bare)
	require.NoError(t, err)
	assert.True(t, note.IsEmpty(), "no stored or inline note gives an empty draft")

	seeded := testutil.NewTestLead("Seeded", testutil.WithInlineNotes("older", "newest"))
	note, err = svc.Load(ctx, &seeded)
	require.NoError(t, err)
	assert.Equal(t, "newest", note.Text, "seeded from the last inline note")

	require.NoError(t, s.notes.Put(ctx, seeded.ID, []domain.Note{{Text: "stored", Timestamp: "2024-01-02 08:00:00"}}))
	note, err = svc.Load(ctx, &seeded)
	require.NoError(t, err)
	assert.Equal(t, "stored", note.Text, "a stored note wins over inline notes")
}

func TestNoteLoad_DoesNotWrite(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	svc := newTestNoteService(s, 0)
	lead := testutil.NewTestLead("Seeded", testutil.WithInlineNotes("inline"))

	_, err := svc.Load(ctx, &lead)
	require.NoError(t, err)

	_, ok, err := s.notes.Get(ctx, lead.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNoteSave_ReplacesNotAppends(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	lead := testutil.NewTestLead("Ali")
	seedLeads(t, s, lead)
	svc := newTestNoteService(s, 0)

	_, err := svc.Save(ctx, lead.ID, "first")
	require.NoError(t, err)
	saved, err := svc.Save(ctx, lead.ID, "  second  ")
	require.NoError(t, err)

	assert.Equal(t, "second", saved.Text)
	assert.Equal(t, "2024-01-15 09:30:00", saved.Timestamp)

	slot, ok, err := s.notes.Get(ctx, lead.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []domain.Note{saved}, slot)
}

func TestNoteSave_BlankTextIsRejected(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	lead := testutil.NewTestLead("Ali")
	seedLeads(t, s, lead)
	svc := newTestNoteService(s, 0)

	prior, err := svc.Save(ctx, lead.ID, "keep me")
	require.NoError(t, err)

	got, err := svc.Save(ctx, lead.ID, " \n\t ")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, prior, got, "prior state is returned")

	slot, _, err := s.notes.Get(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Note{prior}, slot)
}

func TestNoteSave_UnknownLead(t *testing.T) {
	s := setupStores(t)
	svc := newTestNoteService(s, 0)

	_, err := svc.Save(context.Background(), "L-missing", "hello")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.False(t, svc.Saving("L-missing"), "the in-flight flag is cleared on failure")
}

func TestNoteSave_WaitsConfiguredLatency(t *testing.T) {
	s := setupStores(t)
	lead := testutil.NewTestLead("Ali")
	seedLeads(t, s, lead)
	svc := newTestNoteService(s, 1500*time.Millisecond)

	var slept []time.Duration
	svc.sleep = func(d time.Duration) { slept = append(slept, d) }

	_, err := svc.Save(context.Background(), lead.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{1500 * time.Millisecond}, slept)

	_, err = svc.Save(context.Background(), lead.ID, "")
	require.Error(t, err)
	assert.Len(t, slept, 1, "rejected saves do not wait")
}

func TestNoteSave_OneInFlightPerLead(t *testing.T) {
	s := setupStores(t)
	ctx := context.Background()
	a := testutil.NewTestLead("A")
	b := testutil.NewTestLead("B")
	seedLeads(t, s, a, b)
	svc := newTestNoteService(s, time.Second)

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	svc.sleep = func(time.Duration) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
		}
	}

	done := make(chan error, 1)
	go func() {
		_, err := svc.Save(ctx, a.ID, "slow")
		done <- err
	}()
	<-entered
	assert.True(t, svc.Saving(a.ID))

	_, err := svc.Save(ctx, a.ID, "again")
	assert.ErrorIs(t, err, ErrSaveInFlight)

	_, err = svc.Save(ctx, b.ID, "other lead is not blocked")
	assert.NoError(t, err)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, svc.Saving(a.ID))

	slot, _, err := s.notes.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, slot, 1)
	assert.Equal(t, "slow", slot[0].Text)
}
