package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/leadbook/internal/db"
)

// FailOnNthExecUoW is a test UoW that injects an error on the Nth ExecContext
// call within a transaction. Dual writes and cascades use it to fail between
// their individual statements and check that nothing partial is committed.
//
// ExecContext calls are counted starting at 1 and the count restarts for every
// WithinTx. QueryContext and QueryRowContext pass through uncounted.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error

	// Calls counts WithinTx invocations, for tests that only want a later
	// transaction to fail.
	Calls atomic.Int32
	// OnlyCall limits the injected failure to the given WithinTx invocation
	// (1-based). Zero fails every transaction.
	OnlyCall int32
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	call := u.Calls.Add(1)

	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	var conn db.DBTX = tx
	if u.OnlyCall == 0 || u.OnlyCall == call {
		conn = &failOnNthExec{DBTX: tx, failOn: u.FailOn, err: u.Err}
	}
	if fnErr := fn(ctx, conn); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failOnNthExec struct {
	db.DBTX
	count  atomic.Int32
	failOn int32
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	n := f.count.Add(1)
	if n == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
