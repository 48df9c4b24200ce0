package memory

import (
	"context"

	"github.com/pkg/errors"

	"github.com/api-sage/banking-ledger/src/internal/commons"
	"github.com/api-sage/banking-ledger/src/internal/domain"
)

type AccountRepository struct {
	store *Store
	uow   *unitOfWork
}

// run executes fn against the bound unit of work, or against a fresh one that is
// committed immediately when the repository is not bound.
func (r *AccountRepository) run(fn func(u *unitOfWork) error) error {
	if r.uow != nil {
		return fn(r.uow)
	}
	uow := r.store.begin()
	if err := fn(uow); err != nil {
		return err
	}
	r.store.commit(uow)
	return nil
}

func (r *AccountRepository) Get(_ context.Context, accountNumber string) (domain.Account, error) {
	var account domain.Account
	err := r.run(func(u *unitOfWork) error {
		found, ok := u.getAccount(accountNumber)
		if !ok {
			return commons.ErrRecordNotFound
		}
		account = found
		return nil
	})
	return account, err
}

func (r *AccountRepository) GetByOwner(_ context.Context, owner string) ([]domain.Account, error) {
	var accounts []domain.Account
	err := r.run(func(u *unitOfWork) error {
		accounts = u.activeAccountsByOwner(owner)
		return nil
	})
	return accounts, err
}

func (r *AccountRepository) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	err := r.run(func(u *unitOfWork) error {
		if _, exists := u.getAccount(account.AccountNumber); exists {
			return errors.Errorf("create account: account number %s already exists", account.AccountNumber)
		}
		u.putAccount(account)
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

func (r *AccountRepository) Update(_ context.Context, account domain.Account) error {
	return r.run(func(u *unitOfWork) error {
		if _, exists := u.getAccount(account.AccountNumber); !exists {
			return commons.ErrRecordNotFound
		}
		u.putAccount(account)
		return nil
	})
}

func (r *AccountRepository) Delete(_ context.Context, accountNumber string) error {
	return r.run(func(u *unitOfWork) error {
		if _, exists := u.getAccount(accountNumber); !exists {
			return commons.ErrRecordNotFound
		}
		u.deleteAccount(accountNumber)
		return nil
	})
}

func (r *AccountRepository) CountByOwner(_ context.Context, owner string) (int, error) {
	var count int
	err := r.run(func(u *unitOfWork) error {
		count = len(u.activeAccountsByOwner(owner))
		return nil
	})
	return count, err
}

func (r *AccountRepository) NextSequence(_ context.Context, owner string) (int64, error) {
	var next int64
	err := r.run(func(u *unitOfWork) error {
		next = u.nextSequence(owner)
		return nil
	})
	return next, err
}
