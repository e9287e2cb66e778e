package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/leadbook/internal/db"
	"github.com/alexanderramin/leadbook/internal/domain"
	"github.com/alexanderramin/leadbook/internal/repository"
	"github.com/alexanderramin/leadbook/internal/testutil"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

type testStores struct {
	db     *sql.DB
	uow    db.UnitOfWork
	leads  repository.LeadCollection
	tasks  repository.TaskStore
	legacy repository.LegacyTaskSlotStore
	notes  repository.NoteSlotStore
}

func setupStores(t *testing.T) testStores {
	database := testutil.NewTestDB(t)
	return testStores{
		db:     database,
		uow:    testutil.NewTestUoW(database),
		leads:  repository.NewSQLiteLeadCollection(database),
		tasks:  repository.NewSQLiteTaskStore(database),
		legacy: repository.NewSQLiteLegacyTaskSlotStore(database),
		notes:  repository.NewSQLiteNoteSlotStore(database),
	}
}

func seedLeads(t *testing.T, s testStores, leads ...domain.Lead) {
	t.Helper()
	require.NoError(t, s.leads.WriteAll(context.Background(), leads))
}

// newTestTaskService pins the clock and id suffix so generated ids are predictable.
func newTestTaskService(s testStores, uow db.UnitOfWork, observers ...UseCaseObserver) *taskService {
	svc := NewTaskService(s.tasks, uow, observers...).(*taskService)
	svc.now = func() time.Time { return fixedNow }
	n := 0
	svc.suffix = func() string {
		n++
		return []string{"aaaaaaaa", "bbbbbbbb", "cccccccc", "dddddddd"}[(n-1)%4]
	}
	return svc
}

// assertViewsAgree checks that the global collection and the legacy slot hold
// the same tasks for leadID.
func assertViewsAgree(t *testing.T, s testStores, leadID string) []domain.Task {
	t.Helper()
	ctx := context.Background()

	global, err := s.tasks.ListByLead(ctx, leadID)
	require.NoError(t, err)
	legacy, ok, err := s.legacy.Get(ctx, leadID)
	require.NoError(t, err)
	if len(global) > 0 {
		require.True(t, ok, "legacy slot missing for %s", leadID)
	}
	if !ok {
		legacy = []domain.Task{}
	}
	require.Equal(t, global, legacy, "global and legacy views diverged for %s", leadID)
	return global
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}
