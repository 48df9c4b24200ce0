package services

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/api-sage/banking-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/banking-ledger/src/internal/commons"
	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/usecase/service_interfaces"
)

func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	for i := 0; i < 50; i++ {
		env := newTestEnv(t)
		account := env.open(t, "alice", domain.AccountTypeChecking, "40.00")

		errs := make([]error, 2)
		var group errgroup.Group
		for n := range errs {
			group.Go(func() error {
				_, errs[n] = env.ledger.Withdraw(context.Background(), service_interfaces.WithdrawRequest{
					AccountNumber: account.AccountNumber,
					Amount:        "30.00",
					Actor:         "alice",
				})
				return nil
			})
		}
		require.NoError(t, group.Wait())

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, commons.ErrInsufficientFunds)
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, "10.00", env.balance(t, account.AccountNumber))
		assert.Len(t, env.entries(t, account.AccountNumber), 1)
	}
}

func TestBalancesMatchLedgerUnderConcurrentLoad(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	type opened struct {
		account domain.Account
		initial decimal.Decimal
	}
	var accounts []opened
	for _, owner := range []string{"alice", "bob", "carol"} {
		for _, accountType := range []domain.AccountType{domain.AccountTypeChecking, domain.AccountTypeSavings} {
			account := env.open(t, owner, accountType, "25.00")
			accounts = append(accounts, opened{account: account, initial: account.Balance})
		}
	}

	amounts := []string{"0.01", "1.00", "3.50", "10.00", "25.00", "40.00"}
	var (
		rngMu sync.Mutex
		rng   = rand.New(rand.NewSource(42))
	)
	pick := func(n int) int {
		rngMu.Lock()
		defer rngMu.Unlock()
		return rng.Intn(n)
	}

	var group errgroup.Group
	group.SetLimit(8)
	for i := 0; i < 400; i++ {
		from := accounts[pick(len(accounts))].account
		to := accounts[pick(len(accounts))].account
		amount := amounts[pick(len(amounts))]
		op := pick(3)

		group.Go(func() error {
			var err error
			switch op {
			case 0:
				_, err = env.ledger.Deposit(ctx, service_interfaces.DepositRequest{AccountNumber: from.AccountNumber, Amount: amount, Actor: from.Owner})
			case 1:
				_, err = env.ledger.Withdraw(ctx, service_interfaces.WithdrawRequest{AccountNumber: from.AccountNumber, Amount: amount, Actor: from.Owner})
			default:
				_, err = env.ledger.Transfer(ctx, service_interfaces.TransferRequest{
					SenderAccountNumber:   from.AccountNumber,
					ReceiverAccountNumber: to.AccountNumber,
					Amount:                amount,
					Actor:                 from.Owner,
				})
			}
			if err != nil && !commons.IsValidationError(err) {
				return err
			}
			return nil
		})
	}
	require.NoError(t, group.Wait())

	for _, item := range accounts {
		current, err := env.store.Accounts().Get(ctx, item.account.AccountNumber)
		require.NoError(t, err)
		assert.False(t, current.Balance.IsNegative(), item.account.AccountNumber)

		expected := item.initial
		for _, entry := range env.entries(t, item.account.AccountNumber) {
			expected = expected.Add(entry.SignedAmount(item.account.AccountNumber))
		}
		assert.True(t, expected.Equal(current.Balance), "%s: ledger says %s, balance is %s",
			item.account.AccountNumber, expected.StringFixed(2), current.Balance.StringFixed(2))
	}
}

// failingLedger accepts nothing, so any mutation fails after balances are staged.
type failingLedger struct {
	repo_interfaces.TransactionRepository
}

func (failingLedger) Append(context.Context, domain.Transaction) (domain.Transaction, error) {
	return domain.Transaction{}, errors.New("ledger storage unavailable")
}

type failingLedgerTransactor struct {
	inner repo_interfaces.Transactor
}

func (f failingLedgerTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, stores repo_interfaces.Stores) error) error {
	return f.inner.WithinTx(ctx, func(ctx context.Context, stores repo_interfaces.Stores) error {
		stores.Transactions = failingLedger{TransactionRepository: stores.Transactions}
		return fn(ctx, stores)
	})
}

func TestTransferIsAtomicWhenLedgerFails(t *testing.T) {
	env := newTestEnvWithTransactor(t, func(inner repo_interfaces.Transactor) repo_interfaces.Transactor {
		return failingLedgerTransactor{inner: inner}
	})
	a := env.open(t, "alice", domain.AccountTypeSavings, "50.00")
	b := env.open(t, "alice", domain.AccountTypeChecking, "10.00")

	_, err := env.ledger.Transfer(context.Background(), service_interfaces.TransferRequest{
		SenderAccountNumber:   a.AccountNumber,
		ReceiverAccountNumber: b.AccountNumber,
		Amount:                "20.00",
		Actor:                 "alice",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, commons.ErrTransient)
	assert.False(t, commons.IsValidationError(err))

	assert.Equal(t, "50.00", env.balance(t, a.AccountNumber))
	assert.Equal(t, "10.00", env.balance(t, b.AccountNumber))
	assert.Empty(t, env.entries(t, a.AccountNumber))
	assert.Empty(t, env.entries(t, b.AccountNumber))
}

func TestCancelledContextIsTransient(t *testing.T) {
	env := newTestEnv(t)
	account := env.open(t, "alice", domain.AccountTypeSavings, "5.00")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.ledger.Deposit(ctx, service_interfaces.DepositRequest{AccountNumber: account.AccountNumber, Amount: "1.00", Actor: "alice"})
	assert.ErrorIs(t, err, commons.ErrTransient)
	assert.Equal(t, "5.00", env.balance(t, account.AccountNumber))
}
