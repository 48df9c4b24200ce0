package repo_interfaces

import (
	"context"

	"github.com/api-sage/banking-ledger/src/internal/domain"
)

// TransactionRepository is the append-only Ledger Store.
type TransactionRepository interface {
	Append(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error)
	QueryByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error)
	CountByAccount(ctx context.Context, accountNumber string) (int, error)
}
