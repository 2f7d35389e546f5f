package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noopDriver is a minimal database/sql driver whose transactions always
// begin, commit, and roll back cleanly. It lets the retry loop around
// serializable transactions run without a real database: the transaction
// function itself supplies the failures.
type noopDriver struct{}

func (noopDriver) Open(name string) (driver.Conn, error) { return &noopConn{}, nil }

type noopConn struct{}

func (*noopConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}
func (*noopConn) Close() error              { return nil }
func (*noopConn) Begin() (driver.Tx, error) { return noopTx{}, nil }

func (*noopConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	return noopTx{}, nil
}

type noopTx struct{}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }

var registerNoopDriver sync.Once

func openNoopDB(t *testing.T) *sql.DB {
	t.Helper()
	registerNoopDriver.Do(func() {
		sql.Register("tx-noop", noopDriver{})
	})
	db, err := sql.Open("tx-noop", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func serializationFailure() error {
	return &pgconn.PgError{Code: pgSerializationFailureCode, Message: "could not serialize access"}
}

func TestRunInSerializableTransaction(t *testing.T) {
	t.Parallel()

	t.Run("retries a serialization failure and succeeds", func(t *testing.T) {
		t.Parallel()

		db := openNoopDB(t)

		attempts := 0
		err := RunInSerializableTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			attempts++
			if attempts == 1 {
				return serializationFailure()
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, attempts)
	})

	t.Run("exhausted retries surface ErrConcurrentUpdate", func(t *testing.T) {
		t.Parallel()

		db := openNoopDB(t)

		attempts := 0
		err := RunInSerializableTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			attempts++
			return serializationFailure()
		})
		assert.ErrorIs(t, err, ErrConcurrentUpdate)
		assert.Equal(t, maxSerializableAttempts, attempts)
	})

	t.Run("deadlocks are retried too", func(t *testing.T) {
		t.Parallel()

		db := openNoopDB(t)

		attempts := 0
		err := RunInSerializableTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			attempts++
			if attempts == 1 {
				return &pgconn.PgError{Code: pgDeadlockDetectedCode, Message: "deadlock detected"}
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, attempts)
	})

	t.Run("non-retryable errors return immediately", func(t *testing.T) {
		t.Parallel()

		db := openNoopDB(t)

		boom := errors.New("boom")
		attempts := 0
		err := RunInSerializableTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			attempts++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, attempts)
	})

	t.Run("cancelled context stops the retry loop", func(t *testing.T) {
		t.Parallel()

		db := openNoopDB(t)

		ctx, cancel := context.WithCancel(context.Background())
		err := RunInSerializableTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			cancel()
			return serializationFailure()
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
