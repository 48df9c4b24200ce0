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

// TransactionRepository is append-only: there is no update or delete statement.
type TransactionRepository struct {
	db querier
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func newTxTransactionRepository(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

func (r *TransactionRepository) Append(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	logger.Info("transaction repository append", logger.Fields{
		"type":                  transaction.Type,
		"senderAccountNumber":   transaction.SenderAccountNumber,
		"receiverAccountNumber": transaction.ReceiverAccountNumber,
		"amount":                commons.FormatAmount(transaction.Amount),
	})

	if err := transaction.Validate(); err != nil {
		return domain.Transaction{}, errors.Wrap(err, "append transaction")
	}
	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = time.Now().UTC()
	}

	const query = `
INSERT INTO transactions (
	transaction_type,
	sender_account_number,
	receiver_account_number,
	amount,
	description,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		transaction.Type,
		transaction.SenderAccountNumber,
		transaction.ReceiverAccountNumber,
		transaction.Amount.StringFixed(commons.AmountScale),
		transaction.Description,
		transaction.CreatedAt.UTC(),
	).Scan(&transaction.ID); err != nil {
		logger.Error("transaction repository append failed", err, logger.Fields{
			"type": transaction.Type,
		})
		return domain.Transaction{}, errors.Wrap(err, "append transaction")
	}

	logger.Info("transaction repository append success", logger.Fields{
		"transactionId": transaction.ID,
	})

	return transaction, nil
}

func (r *TransactionRepository) QueryByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	logger.Info("transaction repository query by account", logger.Fields{
		"accountNumber": accountNumber,
	})

	const query = `
SELECT id, transaction_type, sender_account_number, receiver_account_number, amount, description, created_at
FROM transactions
WHERE sender_account_number = $1
   OR receiver_account_number = $2
ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, accountNumber, accountNumber)
	if err != nil {
		logger.Error("transaction repository query by account failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return nil, errors.Wrap(err, "query transactions by account")
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan transaction row")
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate transaction rows")
	}

	logger.Info("transaction repository query by account success", logger.Fields{
		"accountNumber": accountNumber,
		"count":         len(transactions),
	})

	return transactions, nil
}

func (r *TransactionRepository) CountByAccount(ctx context.Context, accountNumber string) (int, error) {
	const query = `
SELECT COUNT(1)
FROM transactions
WHERE sender_account_number = $1
   OR receiver_account_number = $2`

	var count int
	if err := r.db.QueryRowContext(ctx, query, accountNumber, accountNumber).Scan(&count); err != nil {
		logger.Error("transaction repository count by account failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return 0, errors.Wrap(err, "count transactions by account")
	}

	return count, nil
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var (
		transaction domain.Transaction
		sender      sql.NullString
		receiver    sql.NullString
		description sql.NullString
	)

	if err := row.Scan(
		&transaction.ID,
		&transaction.Type,
		&sender,
		&receiver,
		&transaction.Amount,
		&description,
		&transaction.CreatedAt,
	); err != nil {
		return domain.Transaction{}, err
	}

	transaction.SenderAccountNumber = nullableString(sender)
	transaction.ReceiverAccountNumber = nullableString(receiver)
	transaction.Description = nullableString(description)
	transaction.CreatedAt = transaction.CreatedAt.UTC()

	return transaction, nil
}

func nullableString(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}
