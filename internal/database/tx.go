package database

import (
	"context"
	"database/sql"
)

// TxRunner scopes a function to a single database transaction.  Services
// use it for multi-step operations whose intermediate states must not be
// observable: the festival cascade delete, the review check-then-insert
// and the wishlist check-then-act all run through RunInTx.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// SQLTxRunner implements TxRunner on top of a *sql.DB.
type SQLTxRunner struct {
	db *sql.DB
}

// NewTxRunner returns a TxRunner bound to the given database.
func NewTxRunner(db *sql.DB) *SQLTxRunner { return &SQLTxRunner{db: db} }

// RunInTx begins a transaction, invokes fn and commits.  The transaction
// is rolled back when fn returns an error or when the commit itself
// fails; the original error is returned to the caller.
func (r *SQLTxRunner) RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
