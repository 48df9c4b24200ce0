package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/api-sage/banking-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/banking-ledger/src/internal/commons"
	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/logger"
	"github.com/api-sage/banking-ledger/src/internal/usecase/service_interfaces"
)

type AccountService struct {
	transactor          repo_interfaces.Transactor
	locker              *AccountLocker
	clock               Clock
	maxAccountsPerOwner int
}

var _ service_interfaces.AccountService = (*AccountService)(nil)

func NewAccountService(
	transactor repo_interfaces.Transactor,
	locker *AccountLocker,
	clock Clock,
	maxAccountsPerOwner int,
) *AccountService {
	return &AccountService{
		transactor:          transactor,
		locker:              locker,
		clock:               clock,
		maxAccountsPerOwner: maxAccountsPerOwner,
	}
}

// CreateAccount opens an account for the owner. The limit check, the sequence
// bump and the insert share one unit of work under the owner lock.
func (s *AccountService) CreateAccount(ctx context.Context, req service_interfaces.CreateAccountRequest) (domain.Account, error) {
	logger.Info("account service create account request", logger.Fields{
		"owner":          req.Owner,
		"type":           req.Type,
		"initialBalance": req.InitialBalance,
	})

	owner := strings.TrimSpace(req.Owner)
	if owner == "" {
		err := commons.Validationf("owner is required")
		logger.Error("account service create account validation failed", err, nil)
		return domain.Account{}, err
	}
	accountType, ok := domain.ParseAccountType(req.Type)
	if !ok {
		logger.Error("account service create account validation failed", commons.ErrInvalidAccountType, logger.Fields{
			"type": req.Type,
		})
		return domain.Account{}, commons.ErrInvalidAccountType
	}
	balance, err := commons.ParseBalance(req.InitialBalance)
	if err != nil {
		logger.Error("account service create account parse balance failed", err, nil)
		return domain.Account{}, err
	}

	unlock, err := s.locker.Lock(ctx, ownerKey(owner))
	if err != nil {
		return domain.Account{}, commons.Transient(err)
	}
	defer unlock()

	var created domain.Account
	err = s.transactor.WithinTx(ctx, func(ctx context.Context, stores repo_interfaces.Stores) error {
		count, err := stores.Accounts.CountByOwner(ctx, owner)
		if err != nil {
			return errors.Wrap(err, "count owner accounts")
		}
		if count >= s.maxAccountsPerOwner {
			return commons.ErrAccountLimitExceeded
		}

		sequence, err := stores.Accounts.NextSequence(ctx, owner)
		if err != nil {
			return errors.Wrap(err, "next account number")
		}

		now := s.clock.Now()
		created, err = stores.Accounts.Create(ctx, domain.Account{
			AccountNumber: accountNumberFor(owner, sequence),
			Owner:         owner,
			Type:          accountType,
			Balance:       balance,
			Status:        domain.AccountStatusActive,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			return errors.Wrap(err, "insert account")
		}
		return nil
	})
	if err != nil {
		err = commons.Classify(err)
		logger.Error("account service create account failed", err, logger.Fields{
			"owner": owner,
		})
		return domain.Account{}, err
	}

	logger.Info("account service create account success", logger.Fields{
		"accountNumber": created.AccountNumber,
		"owner":         created.Owner,
		"type":          created.Type,
	})

	return created, nil
}

// UpdateAccount changes the account type. Balance and owner are not writable here.
func (s *AccountService) UpdateAccount(ctx context.Context, req service_interfaces.UpdateAccountRequest) (domain.Account, error) {
	logger.Info("account service update account request", logger.Fields{
		"accountNumber": req.AccountNumber,
		"type":          req.Type,
		"actor":         req.Actor,
	})

	accountType, ok := domain.ParseAccountType(req.Type)
	if !ok {
		logger.Error("account service update account validation failed", commons.ErrInvalidAccountType, logger.Fields{
			"type": req.Type,
		})
		return domain.Account{}, commons.ErrInvalidAccountType
	}
	accountNumber := strings.TrimSpace(req.AccountNumber)

	unlock, err := s.locker.Lock(ctx, accountKey(accountNumber))
	if err != nil {
		return domain.Account{}, commons.Transient(err)
	}
	defer unlock()

	var updated domain.Account
	err = s.transactor.WithinTx(ctx, func(ctx context.Context, stores repo_interfaces.Stores) error {
		account, err := loadOwnedAccount(ctx, stores.Accounts, accountNumber, req.Actor)
		if err != nil {
			return err
		}

		account.Type = accountType
		account.UpdatedAt = s.clock.Now()
		if err := stores.Accounts.Update(ctx, account); err != nil {
			return errors.Wrap(err, "update account type")
		}
		updated = account
		return nil
	})
	if err != nil {
		err = commons.Classify(err)
		logger.Error("account service update account failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return domain.Account{}, err
	}

	logger.Info("account service update account success", logger.Fields{
		"accountNumber": updated.AccountNumber,
		"type":          updated.Type,
	})

	return updated, nil
}

// DeleteAccount removes an account without ledger history. Accounts with history
// are closed instead so their entries keep a valid reference.
func (s *AccountService) DeleteAccount(ctx context.Context, accountNumber string, actor string) (service_interfaces.DeleteAccountResult, error) {
	logger.Info("account service delete account request", logger.Fields{
		"accountNumber": accountNumber,
		"actor":         actor,
	})

	accountNumber = strings.TrimSpace(accountNumber)

	unlock, err := s.locker.Lock(ctx, accountKey(accountNumber))
	if err != nil {
		return service_interfaces.DeleteAccountResult{}, commons.Transient(err)
	}
	defer unlock()

	result := service_interfaces.DeleteAccountResult{AccountNumber: accountNumber}
	err = s.transactor.WithinTx(ctx, func(ctx context.Context, stores repo_interfaces.Stores) error {
		account, err := loadOwnedAccount(ctx, stores.Accounts, accountNumber, actor)
		if err != nil {
			return err
		}

		history, err := stores.Transactions.CountByAccount(ctx, accountNumber)
		if err != nil {
			return errors.Wrap(err, "count account history")
		}
		if history == 0 {
			return errors.Wrap(stores.Accounts.Delete(ctx, accountNumber), "delete account")
		}

		account.Status = domain.AccountStatusClosed
		account.UpdatedAt = s.clock.Now()
		if err := stores.Accounts.Update(ctx, account); err != nil {
			return errors.Wrap(err, "close account")
		}
		result.Closed = true
		return nil
	})
	if err != nil {
		err = commons.Classify(err)
		logger.Error("account service delete account failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return service_interfaces.DeleteAccountResult{}, err
	}

	logger.Info("account service delete account success", logger.Fields{
		"accountNumber": accountNumber,
		"closed":        result.Closed,
	})

	return result, nil
}

func accountNumberFor(owner string, sequence int64) string {
	return fmt.Sprintf("ACC-%s-%d", owner, sequence)
}
