package services

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/banking-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/banking-ledger/src/internal/commons"
	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/usecase/service_interfaces"
)

func TestStoreFailuresSurfaceAsTransient(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("connection reset by peer")
	account := domain.Account{
		AccountNumber: "ACC-alice-1",
		Owner:         "alice",
		Type:          domain.AccountTypeSavings,
		Balance:       decimal.RequireFromString("10.00"),
		Status:        domain.AccountStatusActive,
	}

	t.Run("account read fails", func(t *testing.T) {
		accounts := &mockAccountRepository{}
		accounts.On("Get", mock.Anything, "ACC-alice-1").Return(domain.Account{}, storeErr)
		ledger := NewLedgerService(passThroughTransactor{stores: repo_interfaces.Stores{Accounts: accounts}}, NewAccountLocker(), fixedClock{})

		_, err := ledger.Deposit(ctx, service_interfaces.DepositRequest{AccountNumber: "ACC-alice-1", Amount: "1.00", Actor: "alice"})
		assert.ErrorIs(t, err, commons.ErrTransient)
		assert.ErrorIs(t, err, storeErr)
		accounts.AssertExpectations(t)
	})

	t.Run("ledger append fails after balance update", func(t *testing.T) {
		accounts := &mockAccountRepository{}
		transactions := &mockTransactionRepository{}
		accounts.On("Get", mock.Anything, "ACC-alice-1").Return(account, nil)
		accounts.On("Update", mock.Anything, mock.MatchedBy(func(updated domain.Account) bool {
			return updated.Balance.Equal(decimal.RequireFromString("6.00"))
		})).Return(nil)
		transactions.On("Append", mock.Anything, mock.Anything).Return(domain.Transaction{}, storeErr)
		ledger := NewLedgerService(passThroughTransactor{stores: repo_interfaces.Stores{Accounts: accounts, Transactions: transactions}}, NewAccountLocker(), fixedClock{})

		_, err := ledger.Withdraw(ctx, service_interfaces.WithdrawRequest{AccountNumber: "ACC-alice-1", Amount: "4.00", Actor: "alice"})
		assert.ErrorIs(t, err, commons.ErrTransient)
		accounts.AssertExpectations(t)
		transactions.AssertExpectations(t)
	})

	t.Run("business errors are not wrapped", func(t *testing.T) {
		accounts := &mockAccountRepository{}
		accounts.On("Get", mock.Anything, "ACC-alice-1").Return(account, nil)
		ledger := NewLedgerService(passThroughTransactor{stores: repo_interfaces.Stores{Accounts: accounts}}, NewAccountLocker(), fixedClock{})

		_, err := ledger.Withdraw(ctx, service_interfaces.WithdrawRequest{AccountNumber: "ACC-alice-1", Amount: "40.00", Actor: "alice"})
		assert.ErrorIs(t, err, commons.ErrInsufficientFunds)
		assert.NotErrorIs(t, err, commons.ErrTransient)
		accounts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("sequence failure aborts account creation", func(t *testing.T) {
		accounts := &mockAccountRepository{}
		accounts.On("CountByOwner", mock.Anything, "alice").Return(0, nil)
		accounts.On("NextSequence", mock.Anything, "alice").Return(int64(0), storeErr)
		service := NewAccountService(passThroughTransactor{stores: repo_interfaces.Stores{Accounts: accounts}}, NewAccountLocker(), fixedClock{now: time.Now()}, 3)

		_, err := service.CreateAccount(ctx, service_interfaces.CreateAccountRequest{Owner: "alice", Type: "CHECKING"})
		assert.ErrorIs(t, err, commons.ErrTransient)
		accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("query failures", func(t *testing.T) {
		accounts := &mockAccountRepository{}
		transactions := &mockTransactionRepository{}
		accounts.On("GetByOwner", mock.Anything, "alice").Return(nil, storeErr)
		accounts.On("Get", mock.Anything, "ACC-alice-1").Return(account, nil)
		transactions.On("QueryByAccount", mock.Anything, "ACC-alice-1").Return(nil, storeErr)
		queries := NewQueryService(accounts, transactions)

		_, err := queries.ListAccounts(ctx, "alice")
		assert.ErrorIs(t, err, commons.ErrTransient)

		_, err = queries.ListTransactions(ctx, "ACC-alice-1", "alice")
		require.Error(t, err)
		assert.ErrorIs(t, err, commons.ErrTransient)
	})
}
