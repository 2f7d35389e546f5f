package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/stackit-qa/stackit-api/internal/platform/logger"
)

// PostgreSQL error codes for commits that lost a concurrency race.
const (
	pgSerializationFailureCode = "40001"
	pgDeadlockDetectedCode     = "40P01"
)

// maxSerializableAttempts bounds the internal retry of aggregate mutations
// that fail to commit due to concurrent modification. Exhaustion surfaces as
// ErrConcurrentUpdate.
const maxSerializableAttempts = 3

// TxFn is a function that executes within a database transaction.
// It receives the context and a transaction, and returns an error if the operation fails.
// The transaction is committed if the function returns nil, or rolled back if it returns an error.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction executes the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// Otherwise, the transaction is committed.
// The function handles rollbacks in case of panic and logs appropriate information.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	return runInTransaction(ctx, db, nil, fn)
}

// RunInSerializableTransaction executes the given function within a
// serializable transaction, retrying a bounded number of times when the
// commit fails because a concurrent transaction touched the same rows.
// Mutations on a single aggregate (an answer's tally, a question's accepted
// answer) must go through this helper so that read-modify-write cycles are
// never interleaved.
func RunInSerializableTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx)

	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	var err error
	for attempt := 1; attempt <= maxSerializableAttempts; attempt++ {
		err = runInTransaction(ctx, db, opts, fn)
		if err == nil || !isSerializationFailure(err) {
			return err
		}

		log.Debug("retrying serializable transaction after conflict",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 10 * time.Millisecond):
		}
	}

	log.Warn("serializable transaction retries exhausted",
		slog.Int("attempts", maxSerializableAttempts),
		slog.String("error", err.Error()))
	return fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
}

// isSerializationFailure checks if the given error is a PostgreSQL
// serialization failure or deadlock, both of which are safe to retry.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailureCode || pgErr.Code == pgDeadlockDetectedCode
	}
	return false
}

func runInTransaction(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn TxFn) error {
	// Get logger from context or use default
	log := logger.FromContext(ctx)

	// Begin a transaction
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		log.Error("failed to begin transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Set up defer to handle panics and roll back the transaction if needed
	defer func() {
		if p := recover(); p != nil {
			// Attempt to roll back the transaction in case of panic
			txErr := tx.Rollback()
			if txErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", txErr.Error()),
					slog.Any("panic", p))
			} else {
				log.Error("rolled back transaction after panic",
					slog.Any("panic", p))
			}
			// Re-panic to maintain the behavior
			panic(p)
		}
	}()

	// Execute the provided function within the transaction
	err = fn(ctx, tx)
	if err != nil {
		// If the function returns an error, roll back the transaction
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rollbackErr.Error()),
				slog.String("original_error", err.Error()))
			// Return the combined errors to provide complete information
			return fmt.Errorf(
				"error rolling back transaction: %v (original error: %w)",
				rollbackErr,
				err,
			)
		}
		log.Debug("rolled back transaction due to error",
			slog.String("error", err.Error()))
		// Return the original error
		return err
	}

	// If the function executed successfully, commit the transaction
	err = tx.Commit()
	if err != nil {
		log.Error("failed to commit transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Transactor abstracts transaction execution so that services can be unit
// tested without a live database.
type Transactor interface {
	// InTx runs fn within an ordinary read-committed transaction.
	InTx(ctx context.Context, fn TxFn) error

	// InSerializableTx runs fn within a serializable transaction with
	// bounded retry of concurrent-modification failures.
	InSerializableTx(ctx context.Context, fn TxFn) error
}

// SQLTransactor implements Transactor over a *sql.DB.
type SQLTransactor struct {
	db *sql.DB
}

// NewSQLTransactor creates a Transactor backed by the given database handle.
func NewSQLTransactor(db *sql.DB) *SQLTransactor {
	return &SQLTransactor{db: db}
}

// InTx implements Transactor.InTx.
func (t *SQLTransactor) InTx(ctx context.Context, fn TxFn) error {
	return RunInTransaction(ctx, t.db, fn)
}

// InSerializableTx implements Transactor.InSerializableTx.
func (t *SQLTransactor) InSerializableTx(ctx context.Context, fn TxFn) error {
	return RunInSerializableTransaction(ctx, t.db, fn)
}
