package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/api-sage/banking-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/banking-ledger/src/internal/domain"
)

type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) Get(ctx context.Context, accountNumber string) (domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	return args.Get(0).(domain.Account), args.Error(1)
}

func (m *mockAccountRepository) GetByOwner(ctx context.Context, owner string) ([]domain.Account, error) {
	args := m.Called(ctx, owner)
	accounts, _ := args.Get(0).([]domain.Account)
	return accounts, args.Error(1)
}

func (m *mockAccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(domain.Account), args.Error(1)
}

func (m *mockAccountRepository) Update(ctx context.Context, account domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *mockAccountRepository) Delete(ctx context.Context, accountNumber string) error {
	return m.Called(ctx, accountNumber).Error(0)
}

func (m *mockAccountRepository) CountByOwner(ctx context.Context, owner string) (int, error) {
	args := m.Called(ctx, owner)
	return args.Int(0), args.Error(1)
}

func (m *mockAccountRepository) NextSequence(ctx context.Context, owner string) (int64, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(int64), args.Error(1)
}

type mockTransactionRepository struct {
	mock.Mock
}

func (m *mockTransactionRepository) Append(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	args := m.Called(ctx, transaction)
	return args.Get(0).(domain.Transaction), args.Error(1)
}

func (m *mockTransactionRepository) QueryByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountNumber)
	transactions, _ := args.Get(0).([]domain.Transaction)
	return transactions, args.Error(1)
}

func (m *mockTransactionRepository) CountByAccount(ctx context.Context, accountNumber string) (int, error) {
	args := m.Called(ctx, accountNumber)
	return args.Int(0), args.Error(1)
}

// passThroughTransactor hands fixed stores to the unit of work and commits nothing.
type passThroughTransactor struct {
	stores repo_interfaces.Stores
}

func (p passThroughTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, stores repo_interfaces.Stores) error) error {
	return fn(ctx, p.stores)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }
