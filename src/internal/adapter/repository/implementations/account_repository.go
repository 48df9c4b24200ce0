package implementations

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/api-sage/banking-ledger/src/internal/commons"
	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/logger"
)

// Placeholders are numbered in order of appearance and never reused so the same
// statements bind positionally on SQLite.
type AccountRepository struct {
	db      querier
	dialect Dialect
	// forUpdate is set for repositories bound to a unit of work.
	forUpdate bool
}

func NewAccountRepository(db *sql.DB, dialect Dialect) *AccountRepository {
	return &AccountRepository{db: db, dialect: dialect}
}

func newTxAccountRepository(tx *sql.Tx, dialect Dialect) *AccountRepository {
	return &AccountRepository{db: tx, dialect: dialect, forUpdate: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}

const accountColumns = `account_number, owner, account_type, balance, status, created_at, updated_at`

func (r *AccountRepository) Get(ctx context.Context, accountNumber string) (domain.Account, error) {
	logger.Info("account repository get", logger.Fields{
		"accountNumber": accountNumber,
	})

	query := `
SELECT ` + accountColumns + `
FROM accounts
WHERE account_number = $1`
	if r.forUpdate {
		query += r.dialect.lockClause()
	}

	var account domain.Account
	if err := scanAccount(r.db.QueryRowContext(ctx, query, accountNumber), &account); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("account repository record not found", logger.Fields{
				"accountNumber": accountNumber,
			})
			return domain.Account{}, commons.ErrRecordNotFound
		}
		logger.Error("account repository get failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return domain.Account{}, errors.Wrap(err, "get account")
	}

	return account, nil
}

func (r *AccountRepository) GetByOwner(ctx context.Context, owner string) ([]domain.Account, error) {
	logger.Info("account repository get by owner", logger.Fields{
		"owner": owner,
	})

	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE owner = $1
  AND status = 'ACTIVE'
ORDER BY created_at ASC, account_number ASC`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		logger.Error("account repository get by owner failed", err, logger.Fields{
			"owner": owner,
		})
		return nil, errors.Wrap(err, "get accounts by owner")
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		var account domain.Account
		if err := scanAccount(rows, &account); err != nil {
			return nil, errors.Wrap(err, "scan account row")
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate account rows")
	}

	logger.Info("account repository get by owner success", logger.Fields{
		"owner": owner,
		"count": len(accounts),
	})

	return accounts, nil
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"owner":         account.Owner,
		"accountNumber": account.AccountNumber,
		"type":          account.Type,
	})

	const query = `
INSERT INTO accounts (
	account_number,
	owner,
	account_type,
	balance,
	status,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if account.Status == "" {
		account.Status = domain.AccountStatusActive
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	if account.UpdatedAt.IsZero() {
		account.UpdatedAt = account.CreatedAt
	}

	if _, err := r.db.ExecContext(
		ctx,
		query,
		account.AccountNumber,
		account.Owner,
		account.Type,
		account.Balance.StringFixed(commons.AmountScale),
		account.Status,
		account.CreatedAt.UTC(),
		account.UpdatedAt.UTC(),
	); err != nil {
		logger.Error("account repository create failed", err, logger.Fields{
			"owner":         account.Owner,
			"accountNumber": account.AccountNumber,
			"duplicate":     isUniqueViolation(err),
		})
		return domain.Account{}, errors.Wrap(err, "create account")
	}

	logger.Info("account repository create success", logger.Fields{
		"accountNumber": account.AccountNumber,
	})

	return account, nil
}

func (r *AccountRepository) Update(ctx context.Context, account domain.Account) error {
	logger.Info("account repository update", logger.Fields{
		"accountNumber": account.AccountNumber,
		"status":        account.Status,
	})

	const query = `
UPDATE accounts
SET account_type = $1,
    balance = $2,
    status = $3,
    updated_at = $4
WHERE account_number = $5`

	if account.UpdatedAt.IsZero() {
		account.UpdatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(
		ctx,
		query,
		account.Type,
		account.Balance.StringFixed(commons.AmountScale),
		account.Status,
		account.UpdatedAt.UTC(),
		account.AccountNumber,
	)
	if err != nil {
		logger.Error("account repository update failed", err, logger.Fields{
			"accountNumber": account.AccountNumber,
		})
		return errors.Wrap(err, "update account")
	}

	return requireRows(result, "update account")
}

func (r *AccountRepository) Delete(ctx context.Context, accountNumber string) error {
	logger.Info("account repository delete", logger.Fields{
		"accountNumber": accountNumber,
	})

	const query = `DELETE FROM accounts WHERE account_number = $1`

	result, err := r.db.ExecContext(ctx, query, accountNumber)
	if err != nil {
		logger.Error("account repository delete failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return errors.Wrap(err, "delete account")
	}

	return requireRows(result, "delete account")
}

func (r *AccountRepository) CountByOwner(ctx context.Context, owner string) (int, error) {
	const query = `
SELECT COUNT(1)
FROM accounts
WHERE owner = $1
  AND status = 'ACTIVE'`

	var count int
	if err := r.db.QueryRowContext(ctx, query, owner).Scan(&count); err != nil {
		logger.Error("account repository count by owner failed", err, logger.Fields{
			"owner": owner,
		})
		return 0, errors.Wrap(err, "count accounts by owner")
	}

	return count, nil
}

// NextSequence advances the owner's account number sequence. The row is never
// decremented, so numbers stay unique after deletes.
func (r *AccountRepository) NextSequence(ctx context.Context, owner string) (int64, error) {
	const query = `
INSERT INTO account_sequences (owner, last_value)
VALUES ($1, 1)
ON CONFLICT (owner) DO UPDATE SET last_value = account_sequences.last_value + 1
RETURNING last_value`

	var next int64
	if err := r.db.QueryRowContext(ctx, query, owner).Scan(&next); err != nil {
		logger.Error("account repository next sequence failed", err, logger.Fields{
			"owner": owner,
		})
		return 0, errors.Wrap(err, "next account sequence")
	}

	return next, nil
}

func scanAccount(row rowScanner, account *domain.Account) error {
	return row.Scan(
		&account.AccountNumber,
		&account.Owner,
		&account.Type,
		&account.Balance,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
}

func requireRows(result sql.Result, operation string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "%s rows affected", operation)
	}
	if affected == 0 {
		return commons.ErrRecordNotFound
	}
	return nil
}
