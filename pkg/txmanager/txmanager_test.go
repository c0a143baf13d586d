package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowbook/booking-service/pkg/dbmetrics"
)

var serializationErr = &pq.Error{
	Code:    "40001",
	Message: "could not serialize access due to concurrent update",
}

type fakeTx struct {
	commitErr error
	commits   int
	rollbacks int
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.commits++
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rollbacks++
	return nil
}

type fakeBeginner struct {
	begins int
	txs    []*fakeTx // транзакция на каждый BeginTx, последняя переиспользуется
}

func (b *fakeBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.begins++
	idx := b.begins - 1
	if idx >= len(b.txs) {
		idx = len(b.txs) - 1
	}
	return b.txs[idx], nil
}

func TestDoSerializable_RetriesOnCommitSerializationFailure(t *testing.T) {
	beginner := &fakeBeginner{txs: []*fakeTx{
		{commitErr: serializationErr},
		{},
	}}
	m := NewTransactionManager(beginner)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, beginner.begins)
	assert.Equal(t, 1, beginner.txs[1].commits)
}

func TestDoSerializable_RetriesOnStatementSerializationFailure(t *testing.T) {
	beginner := &fakeBeginner{txs: []*fakeTx{{}}}
	m := NewTransactionManager(beginner)

	// Репозитории сохраняют только текст причины, код 40001 теряется
	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return fmt.Errorf("storage unavailable: failed to reserve slot: %v", serializationErr)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, beginner.begins)
}

func TestDoSerializable_GivesUpAfterBoundedAttempts(t *testing.T) {
	beginner := &fakeBeginner{txs: []*fakeTx{{commitErr: serializationErr}}}
	m := NewTransactionManager(beginner)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, serializableAttempts, calls)

	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
}

func TestDoSerializable_DomainErrorNotRetried(t *testing.T) {
	beginner := &fakeBeginner{txs: []*fakeTx{{}}}
	m := NewTransactionManager(beginner)

	errSlotConflict := errors.New("slot is no longer available")

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return errSlotConflict
	})

	require.ErrorIs(t, err, errSlotConflict)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, beginner.txs[0].rollbacks)
}

func TestDoSerializable_NestedTransactionNotRetried(t *testing.T) {
	beginner := &fakeBeginner{txs: []*fakeTx{{}}}
	m := NewTransactionManager(beginner)

	ctx := dbmetrics.WithTransaction(context.Background(), &fakeTx{})

	calls := 0
	err := m.DoSerializable(ctx, func(ctx context.Context) error {
		calls++
		return fmt.Errorf("wrapped: %v", serializationErr)
	})

	// Внутри внешней транзакции перезапуск невозможен, ошибка уходит наверх
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Zero(t, beginner.begins)
}
