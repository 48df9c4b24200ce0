package memory

import (
	"context"

	"github.com/pkg/errors"

	"github.com/api-sage/banking-ledger/src/internal/domain"
)

type TransactionRepository struct {
	store *Store
	uow   *unitOfWork
}

func (r *TransactionRepository) run(fn func(u *unitOfWork) error) error {
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

func (r *TransactionRepository) Append(_ context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	if err := transaction.Validate(); err != nil {
		return domain.Transaction{}, errors.Wrap(err, "append transaction")
	}

	var appended domain.Transaction
	err := r.run(func(u *unitOfWork) error {
		appended = u.append(transaction)
		return nil
	})
	return appended, err
}

func (r *TransactionRepository) QueryByAccount(_ context.Context, accountNumber string) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	err := r.run(func(u *unitOfWork) error {
		transactions = u.transactionsFor(accountNumber)
		return nil
	})
	return transactions, err
}

func (r *TransactionRepository) CountByAccount(_ context.Context, accountNumber string) (int, error) {
	var count int
	err := r.run(func(u *unitOfWork) error {
		count = len(u.transactionsFor(accountNumber))
		return nil
	})
	return count, err
}
