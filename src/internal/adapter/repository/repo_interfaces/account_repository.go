package repo_interfaces

import (
	"context"

	"github.com/api-sage/banking-ledger/src/internal/domain"
)

// AccountRepository is the Account Store. Get returns commons.ErrRecordNotFound
// for unknown account numbers. GetByOwner and CountByOwner only see ACTIVE accounts.
type AccountRepository interface {
	Get(ctx context.Context, accountNumber string) (domain.Account, error)
	GetByOwner(ctx context.Context, owner string) ([]domain.Account, error)
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	Update(ctx context.Context, account domain.Account) error
	Delete(ctx context.Context, accountNumber string) error
	CountByOwner(ctx context.Context, owner string) (int, error)
	NextSequence(ctx context.Context, owner string) (int64, error)
}
