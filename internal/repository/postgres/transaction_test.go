package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTxFixture(t *testing.T) (*TxManager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTxManager(db), mock
}

func TestTxManager_WithTx(t *testing.T) {
	t.Run("commits_on_success", func(t *testing.T) {
		tm, mock := newTxFixture(t)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO app_config").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := tm.WithTx(context.Background(), func(tx *sql.Tx) error {
			_, err := tx.Exec("INSERT INTO app_config (key, value) VALUES ($1, $2)", "k", "{}")
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls_back_on_error", func(t *testing.T) {
		tm, mock := newTxFixture(t)
		boom := errors.New("seed step failed")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := tm.WithTx(context.Background(), func(tx *sql.Tx) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin_failure", func(t *testing.T) {
		tm, mock := newTxFixture(t)

		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		err := tm.WithTx(context.Background(), func(tx *sql.Tx) error {
			t.Fatal("fn must not run when begin fails")
			return nil
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to begin transaction")
	})

	t.Run("commit_failure_is_reported", func(t *testing.T) {
		tm, mock := newTxFixture(t)

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("deadlock detected"))

		err := tm.WithTx(context.Background(), func(tx *sql.Tx) error {
			return nil
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to commit transaction")
	})
}

func TestTxManager_WithSerializableTx(t *testing.T) {
	tm, mock := newTxFixture(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := tm.WithSerializableTx(context.Background(), func(tx *sql.Tx) error {
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
