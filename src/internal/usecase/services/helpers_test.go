package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/api-sage/banking-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/banking-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/banking-ledger/src/internal/commons"
	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/usecase/service_interfaces"
)

// tickingClock starts at a fixed instant and moves forward a millisecond per call.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTickingClock(start time.Time) *tickingClock {
	return &tickingClock{now: start}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

type testEnv struct {
	store    *memory.Store
	ledger   *LedgerService
	accounts *AccountService
	queries  *QueryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithTransactor(t, nil)
}

// newTestEnvWithTransactor lets tests wrap the store's unit of work.
func newTestEnvWithTransactor(t *testing.T, wrap func(repo_interfaces.Transactor) repo_interfaces.Transactor) *testEnv {
	t.Helper()
	store := memory.NewStore()
	var transactor repo_interfaces.Transactor = store
	if wrap != nil {
		transactor = wrap(store)
	}
	locker := NewAccountLocker()
	clock := newTickingClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))

	return &testEnv{
		store:    store,
		ledger:   NewLedgerService(transactor, locker, clock),
		accounts: NewAccountService(store, locker, clock, 3),
		queries:  NewQueryService(store.Accounts(), store.Transactions()),
	}
}

func (e *testEnv) open(t *testing.T, owner string, accountType domain.AccountType, balance string) domain.Account {
	t.Helper()
	account, err := e.accounts.CreateAccount(context.Background(), service_interfaces.CreateAccountRequest{
		Owner:          owner,
		Type:           string(accountType),
		InitialBalance: balance,
	})
	require.NoError(t, err)
	return account
}

func (e *testEnv) balance(t *testing.T, accountNumber string) string {
	t.Helper()
	account, err := e.store.Accounts().Get(context.Background(), accountNumber)
	require.NoError(t, err)
	return commons.FormatAmount(account.Balance)
}

func (e *testEnv) entries(t *testing.T, accountNumber string) []domain.Transaction {
	t.Helper()
	entries, err := e.store.Transactions().QueryByAccount(context.Background(), accountNumber)
	require.NoError(t, err)
	return entries
}
