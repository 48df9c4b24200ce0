package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/api-sage/banking-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/banking-ledger/src/internal/domain"
)

// Store keeps accounts, ledger entries and users in process memory. It is the
// Transactor for its own repositories: writes made inside WithinTx are staged and
// published in one critical section on success.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]domain.Account
	sequences    map[string]int64
	transactions []domain.Transaction

	// ledger ids and timestamps are handed out together so that id order and
	// CreatedAt order never disagree
	stampMu       sync.Mutex
	lastTxID      int64
	lastCreatedAt time.Time

	usersMu sync.RWMutex
	users   map[string]domain.User
}

var _ repo_interfaces.Transactor = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		accounts:  make(map[string]domain.Account),
		sequences: make(map[string]int64),
		users:     make(map[string]domain.User),
	}
}

// Accounts returns an auto-committing account repository for read paths.
func (s *Store) Accounts() *AccountRepository {
	return &AccountRepository{store: s}
}

// Transactions returns an auto-committing ledger repository for read paths.
func (s *Store) Transactions() *TransactionRepository {
	return &TransactionRepository{store: s}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{store: s}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, stores repo_interfaces.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "begin unit of work")
	}

	uow := s.begin()
	stores := repo_interfaces.Stores{
		Accounts:     &AccountRepository{store: s, uow: uow},
		Transactions: &TransactionRepository{store: s, uow: uow},
	}
	if err := fn(ctx, stores); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "commit unit of work")
	}
	s.commit(uow)
	return nil
}

type unitOfWork struct {
	store *Store
	// a nil value marks a staged delete
	accounts  map[string]*domain.Account
	sequences map[string]int64
	appended  []domain.Transaction
}

func (s *Store) begin() *unitOfWork {
	return &unitOfWork{
		store:     s,
		accounts:  make(map[string]*domain.Account),
		sequences: make(map[string]int64),
	}
}

func (s *Store) commit(uow *unitOfWork) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for number, account := range uow.accounts {
		if account == nil {
			delete(s.accounts, number)
			continue
		}
		s.accounts[number] = *account
	}
	for owner, value := range uow.sequences {
		if value > s.sequences[owner] {
			s.sequences[owner] = value
		}
	}
	s.transactions = append(s.transactions, uow.appended...)
}

func (u *unitOfWork) getAccount(accountNumber string) (domain.Account, bool) {
	if staged, ok := u.accounts[accountNumber]; ok {
		if staged == nil {
			return domain.Account{}, false
		}
		return *staged, true
	}

	u.store.mu.RLock()
	defer u.store.mu.RUnlock()
	account, ok := u.store.accounts[accountNumber]
	return account, ok
}

func (u *unitOfWork) activeAccountsByOwner(owner string) []domain.Account {
	merged := make(map[string]domain.Account)

	u.store.mu.RLock()
	for number, account := range u.store.accounts {
		if account.Owner == owner {
			merged[number] = account
		}
	}
	u.store.mu.RUnlock()

	for number, staged := range u.accounts {
		if staged == nil {
			delete(merged, number)
			continue
		}
		if staged.Owner == owner {
			merged[number] = *staged
		}
	}

	out := make([]domain.Account, 0, len(merged))
	for _, account := range merged {
		if account.IsActive() {
			out = append(out, account)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].AccountNumber < out[j].AccountNumber
	})
	return out
}

func (u *unitOfWork) putAccount(account domain.Account) {
	u.accounts[account.AccountNumber] = &account
}

func (u *unitOfWork) deleteAccount(accountNumber string) {
	u.accounts[accountNumber] = nil
}

func (u *unitOfWork) nextSequence(owner string) int64 {
	current, ok := u.sequences[owner]
	if !ok {
		u.store.mu.RLock()
		current = u.store.sequences[owner]
		u.store.mu.RUnlock()
	}
	current++
	u.sequences[owner] = current
	return current
}

func (u *unitOfWork) append(transaction domain.Transaction) domain.Transaction {
	u.store.stampMu.Lock()
	u.store.lastTxID++
	transaction.ID = u.store.lastTxID
	if transaction.CreatedAt.Before(u.store.lastCreatedAt) {
		transaction.CreatedAt = u.store.lastCreatedAt
	}
	u.store.lastCreatedAt = transaction.CreatedAt
	u.store.stampMu.Unlock()

	u.appended = append(u.appended, transaction)
	return transaction
}

func (u *unitOfWork) transactionsFor(accountNumber string) []domain.Transaction {
	var out []domain.Transaction

	u.store.mu.RLock()
	for _, transaction := range u.store.transactions {
		if transaction.Involves(accountNumber) {
			out = append(out, transaction)
		}
	}
	u.store.mu.RUnlock()

	for _, transaction := range u.appended {
		if transaction.Involves(accountNumber) {
			out = append(out, transaction)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
