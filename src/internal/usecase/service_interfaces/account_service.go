package service_interfaces

import (
	"context"

	"github.com/api-sage/banking-ledger/src/internal/domain"
)

type AccountService interface {
	CreateAccount(ctx context.Context, req CreateAccountRequest) (domain.Account, error)
	UpdateAccount(ctx context.Context, req UpdateAccountRequest) (domain.Account, error)
	DeleteAccount(ctx context.Context, accountNumber string, actor string) (DeleteAccountResult, error)
}
