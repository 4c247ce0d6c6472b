package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// TxManager runs multi-statement operations in one transaction. The seed is
// its main consumer: the marker row commits atomically with the data, so a
// failed seed leaves nothing behind.
type TxManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// WithTx runs fn inside a transaction, committing when it returns nil and
// rolling back otherwise. The fn error wins over a rollback failure.
func (tm *TxManager) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return tm.withTx(ctx, nil, fn)
}

// WithSerializableTx is WithTx at SERIALIZABLE isolation, for operations
// that must not interleave with concurrent writers.
func (tm *TxManager) WithSerializableTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return tm.withTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

func (tm *TxManager) withTx(ctx context.Context, opts *sql.TxOptions, fn func(*sql.Tx) error) error {
	tx, err := tm.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("tx err: %v, rollback err: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
