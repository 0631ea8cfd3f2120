package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/pkg/dbmetrics"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	txs  []*fakeTx
	opts []*sql.TxOptions
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	tx := &fakeTx{}
	b.txs = append(b.txs, tx)
	b.opts = append(b.opts, opts)
	return tx, nil
}

func TestDoSerializable_RetriesSerializationFailure(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db, WithBackoff(0))

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		if calls < 3 {
			return fmt.Errorf("insert: %w", &pq.Error{Code: "40001"})
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	require.Len(t, db.txs, 3)
	assert.True(t, db.txs[0].rolledBack)
	assert.True(t, db.txs[2].committed)
	assert.Equal(t, sql.LevelSerializable, db.opts[0].Isolation)
}

func TestDoSerializable_GivesUpAfterMaxAttempts(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db, WithBackoff(0), WithMaxAttempts(2))

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return &pq.Error{Code: "40P01"}
	})

	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Len(t, db.txs, 2)
}

func TestDoSerializable_BusinessErrorIsNotRetried(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db, WithBackoff(0))
	errBusiness := errors.New("slot already booked")

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return errBusiness
	})

	assert.ErrorIs(t, err, errBusiness)
	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].rolledBack)
	assert.False(t, db.txs[0].committed)
}

func TestDo_NestedCallReusesTransaction(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoSerializable(ctx, func(ctx context.Context) error {
			return nil
		})
	})

	require.NoError(t, err)
	assert.Len(t, db.txs, 1)
}

func TestDo_CommitError(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	err := m.DoReadOnly(context.Background(), func(ctx context.Context) error {
		tx, _ := dbmetrics.TxFromContext(ctx)
		tx.(*fakeTx).commitErr = errors.New("connection reset")
		return nil
	})

	assert.ErrorIs(t, err, ErrCommit)
	assert.True(t, db.opts[0].ReadOnly)
}

func TestDo_AttemptTimeout(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db, WithTimeout(time.Second))

	err := m.Do(context.Background(), func(ctx context.Context) error {
		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 500*time.Millisecond)
		return nil
	})

	require.NoError(t, err)
}

func TestDo_RowLocksOnlyInWritableTransactions(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)
	ctx := context.Background()

	assert.False(t, dbmetrics.CanLockRows(ctx))

	require.NoError(t, m.DoReadOnly(ctx, func(ctx context.Context) error {
		assert.False(t, dbmetrics.CanLockRows(ctx))
		return m.DoSerializable(ctx, func(ctx context.Context) error {
			assert.False(t, dbmetrics.CanLockRows(ctx))
			return nil
		})
	}))

	require.NoError(t, m.DoSerializable(ctx, func(ctx context.Context) error {
		assert.True(t, dbmetrics.CanLockRows(ctx))
		return nil
	}))

	require.NoError(t, m.Do(ctx, func(ctx context.Context) error {
		assert.True(t, dbmetrics.CanLockRows(ctx))
		return nil
	}))
}
