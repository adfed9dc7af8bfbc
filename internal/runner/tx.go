package runner

import (
	"context"
	"database/sql"
	"errors"
)

// Tx runs statements inside a transaction. It shares the DB's logger,
// tracer, hook and validator but bypasses the statement cache.
type Tx struct {
	*DB
	tx *sql.Tx
}

// Begin starts a transaction on the pool.
func (db *DB) Begin(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	if db.pool == nil {
		return nil, ErrNoPool
	}
	tx, err := db.pool.BeginTx(ctx, opts)
	if err != nil {
		return nil, WrapError(err, "begin")
	}

	inner := *db
	inner.conn = tx
	inner.pool = nil
	inner.owned = false
	inner.stmts = nil
	return &Tx{DB: &inner, tx: tx}, nil
}

// Commit commits the transaction.
func (tx *Tx) Commit() error {
	return txErr(tx.tx.Commit())
}

// Rollback aborts the transaction.
func (tx *Tx) Rollback() error {
	return txErr(tx.tx.Rollback())
}

func txErr(err error) error {
	if errors.Is(err, sql.ErrTxDone) {
		return ErrTxDone
	}
	return err
}

// Transactional runs fn in a transaction. The transaction is committed when
// fn returns nil and rolled back when it returns an error or panics.
// A panic is re-raised after the rollback.
func (db *DB) Transactional(ctx context.Context, fn func(tx *Tx) error) (err error) {
	tx, err := db.Begin(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, WrapError(rbErr, "rollback"))
		}
		return err
	}
	return WrapError(tx.Commit(), "commit")
}
