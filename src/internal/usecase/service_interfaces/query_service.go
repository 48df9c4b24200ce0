package service_interfaces

import (
	"context"

	"github.com/api-sage/banking-ledger/src/internal/domain"
)

type QueryService interface {
	ListAccounts(ctx context.Context, owner string) ([]domain.Account, error)
	GetAccount(ctx context.Context, accountNumber string, actor string) (domain.Account, error)
	ListTransactions(ctx context.Context, accountNumber string, actor string) ([]domain.Transaction, error)
}
