package implementations

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/api-sage/banking-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/banking-ledger/src/internal/logger"
)

// Transactor runs units of work in a database transaction. Units that fail with a
// serialization conflict are replayed from the start up to maxRetries times.
type Transactor struct {
	db         *sql.DB
	dialect    Dialect
	maxRetries int
}

func NewTransactor(db *sql.DB, dialect Dialect, maxRetries int) *Transactor {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Transactor{db: db, dialect: dialect, maxRetries: maxRetries}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, stores repo_interfaces.Stores) error) error {
	var err error
	for attempt := 1; attempt <= t.maxRetries+1; attempt++ {
		err = t.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}

		logger.Warn("unit of work conflict, retrying", logger.Fields{
			"attempt": attempt,
			"error":   err.Error(),
		})
	}

	return err
}

func (t *Transactor) runOnce(ctx context.Context, fn func(ctx context.Context, stores repo_interfaces.Stores) error) (err error) {
	tx, err := t.db.BeginTx(ctx, t.dialect.txOptions())
	if err != nil {
		return errors.Wrap(err, "begin unit of work")
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stores := repo_interfaces.Stores{
		Accounts:     newTxAccountRepository(tx, t.dialect),
		Transactions: newTxTransactionRepository(tx),
	}

	if err = fn(ctx, stores); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit unit of work")
	}

	return nil
}
