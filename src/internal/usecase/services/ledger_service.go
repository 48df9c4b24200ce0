package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/api-sage/banking-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/banking-ledger/src/internal/commons"
	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/logger"
	"github.com/api-sage/banking-ledger/src/internal/usecase/service_interfaces"
)

// LedgerService is the only writer of balances. Each operation locks the accounts
// it touches, then reads, validates and writes inside one unit of work, so a
// balance change and its ledger entry are committed together.
type LedgerService struct {
	transactor repo_interfaces.Transactor
	locker     *AccountLocker
	clock      Clock
}

var _ service_interfaces.LedgerService = (*LedgerService)(nil)

func NewLedgerService(transactor repo_interfaces.Transactor, locker *AccountLocker, clock Clock) *LedgerService {
	return &LedgerService{
		transactor: transactor,
		locker:     locker,
		clock:      clock,
	}
}

func (s *LedgerService) Deposit(ctx context.Context, req service_interfaces.DepositRequest) (service_interfaces.MutationResult, error) {
	logger.Info("ledger service deposit request", logger.Fields{
		"accountNumber": req.AccountNumber,
		"amount":        req.Amount,
		"actor":         req.Actor,
	})

	amount, err := commons.ParseAmount(req.Amount)
	if err != nil {
		logger.Error("ledger service deposit validation failed", err, nil)
		return service_interfaces.MutationResult{}, err
	}
	accountNumber := strings.TrimSpace(req.AccountNumber)

	result, err := s.apply(ctx, []string{accountNumber}, func(ctx context.Context, stores repo_interfaces.Stores) (service_interfaces.MutationResult, error) {
		account, err := loadOwnedAccount(ctx, stores.Accounts, accountNumber, req.Actor)
		if err != nil {
			return service_interfaces.MutationResult{}, err
		}
		if !commons.WithinLimit(account.Balance.Add(amount)) {
			return service_interfaces.MutationResult{}, errors.Wrap(commons.ErrInvalidAmount, "balance would exceed the maximum")
		}

		now := s.clock.Now()
		account.Balance = account.Balance.Add(amount)
		account.UpdatedAt = now
		if err := stores.Accounts.Update(ctx, account); err != nil {
			return service_interfaces.MutationResult{}, errors.Wrap(err, "credit account")
		}

		entry, err := stores.Transactions.Append(ctx, domain.Transaction{
			Type:                  domain.TransactionTypeDeposit,
			ReceiverAccountNumber: stringPtr(account.AccountNumber),
			Amount:                amount,
			Description:           optionalString(req.Description),
			CreatedAt:             now,
		})
		if err != nil {
			return service_interfaces.MutationResult{}, errors.Wrap(err, "record deposit")
		}

		return service_interfaces.MutationResult{
			AccountNumber: account.AccountNumber,
			Balance:       account.Balance,
			Transaction:   entry,
		}, nil
	})
	if err != nil {
		logger.Error("ledger service deposit failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return service_interfaces.MutationResult{}, err
	}

	logger.Info("ledger service deposit success", logger.Fields{
		"accountNumber": result.AccountNumber,
		"transactionId": result.Transaction.ID,
		"balance":       commons.FormatAmount(result.Balance),
	})

	return result, nil
}

func (s *LedgerService) Withdraw(ctx context.Context, req service_interfaces.WithdrawRequest) (service_interfaces.MutationResult, error) {
	logger.Info("ledger service withdraw request", logger.Fields{
		"accountNumber": req.AccountNumber,
		"amount":        req.Amount,
		"actor":         req.Actor,
	})

	amount, err := commons.ParseAmount(req.Amount)
	if err != nil {
		logger.Error("ledger service withdraw validation failed", err, nil)
		return service_interfaces.MutationResult{}, err
	}
	accountNumber := strings.TrimSpace(req.AccountNumber)

	result, err := s.apply(ctx, []string{accountNumber}, func(ctx context.Context, stores repo_interfaces.Stores) (service_interfaces.MutationResult, error) {
		account, err := loadOwnedAccount(ctx, stores.Accounts, accountNumber, req.Actor)
		if err != nil {
			return service_interfaces.MutationResult{}, err
		}
		if account.Balance.LessThan(amount) {
			return service_interfaces.MutationResult{}, commons.ErrInsufficientFunds
		}

		now := s.clock.Now()
		account.Balance = account.Balance.Sub(amount)
		account.UpdatedAt = now
		if err := stores.Accounts.Update(ctx, account); err != nil {
			return service_interfaces.MutationResult{}, errors.Wrap(err, "debit account")
		}

		entry, err := stores.Transactions.Append(ctx, domain.Transaction{
			Type:                domain.TransactionTypeWithdrawal,
			SenderAccountNumber: stringPtr(account.AccountNumber),
			Amount:              amount,
			Description:         optionalString(req.Description),
			CreatedAt:           now,
		})
		if err != nil {
			return service_interfaces.MutationResult{}, errors.Wrap(err, "record withdrawal")
		}

		return service_interfaces.MutationResult{
			AccountNumber: account.AccountNumber,
			Balance:       account.Balance,
			Transaction:   entry,
		}, nil
	})
	if err != nil {
		logger.Error("ledger service withdraw failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return service_interfaces.MutationResult{}, err
	}

	logger.Info("ledger service withdraw success", logger.Fields{
		"accountNumber": result.AccountNumber,
		"transactionId": result.Transaction.ID,
		"balance":       commons.FormatAmount(result.Balance),
	})

	return result, nil
}

// Transfer validates in a fixed order (amount, sender, receiver, distinct
// accounts, same-owner types, funds) and reports the first failure.
func (s *LedgerService) Transfer(ctx context.Context, req service_interfaces.TransferRequest) (service_interfaces.MutationResult, error) {
	logger.Info("ledger service transfer request", logger.Fields{
		"senderAccountNumber":   req.SenderAccountNumber,
		"receiverAccountNumber": req.ReceiverAccountNumber,
		"amount":                req.Amount,
		"actor":                 req.Actor,
	})

	amount, err := commons.ParseAmount(req.Amount)
	if err != nil {
		logger.Error("ledger service transfer validation failed", err, nil)
		return service_interfaces.MutationResult{}, err
	}
	senderNumber := strings.TrimSpace(req.SenderAccountNumber)
	receiverNumber := strings.TrimSpace(req.ReceiverAccountNumber)

	result, err := s.apply(ctx, []string{senderNumber, receiverNumber}, func(ctx context.Context, stores repo_interfaces.Stores) (service_interfaces.MutationResult, error) {
		sender, err := loadOwnedAccount(ctx, stores.Accounts, senderNumber, req.Actor)
		if err != nil {
			return service_interfaces.MutationResult{}, err
		}
		receiver, err := loadActiveAccount(ctx, stores.Accounts, receiverNumber)
		if err != nil {
			return service_interfaces.MutationResult{}, err
		}
		if sender.AccountNumber == receiver.AccountNumber {
			return service_interfaces.MutationResult{}, commons.ErrSameAccount
		}
		if sender.Owner == receiver.Owner && sender.Type == receiver.Type {
			return service_interfaces.MutationResult{}, commons.ErrSameTypeSelfTransfer
		}
		if sender.Balance.LessThan(amount) {
			return service_interfaces.MutationResult{}, commons.ErrInsufficientFunds
		}
		if !commons.WithinLimit(receiver.Balance.Add(amount)) {
			return service_interfaces.MutationResult{}, errors.Wrap(commons.ErrInvalidAmount, "receiver balance would exceed the maximum")
		}

		now := s.clock.Now()
		sender.Balance = sender.Balance.Sub(amount)
		sender.UpdatedAt = now
		receiver.Balance = receiver.Balance.Add(amount)
		receiver.UpdatedAt = now

		if err := stores.Accounts.Update(ctx, sender); err != nil {
			return service_interfaces.MutationResult{}, errors.Wrap(err, "debit sender")
		}
		if err := stores.Accounts.Update(ctx, receiver); err != nil {
			return service_interfaces.MutationResult{}, errors.Wrap(err, "credit receiver")
		}

		entry, err := stores.Transactions.Append(ctx, domain.Transaction{
			Type:                  domain.TransactionTypeTransfer,
			SenderAccountNumber:   stringPtr(sender.AccountNumber),
			ReceiverAccountNumber: stringPtr(receiver.AccountNumber),
			Amount:                amount,
			Description:           optionalString(req.Description),
			CreatedAt:             now,
		})
		if err != nil {
			return service_interfaces.MutationResult{}, errors.Wrap(err, "record transfer")
		}

		return service_interfaces.MutationResult{
			AccountNumber: sender.AccountNumber,
			Balance:       sender.Balance,
			Transaction:   entry,
		}, nil
	})
	if err != nil {
		logger.Error("ledger service transfer failed", err, logger.Fields{
			"senderAccountNumber":   senderNumber,
			"receiverAccountNumber": receiverNumber,
		})
		return service_interfaces.MutationResult{}, err
	}

	logger.Info("ledger service transfer success", logger.Fields{
		"senderAccountNumber":   senderNumber,
		"receiverAccountNumber": receiverNumber,
		"transactionId":         result.Transaction.ID,
		"balance":               commons.FormatAmount(result.Balance),
	})

	return result, nil
}

// apply runs fn under the account locks inside one unit of work. Business errors
// come back as they are; anything else is reported as transient.
func (s *LedgerService) apply(
	ctx context.Context,
	accountNumbers []string,
	fn func(ctx context.Context, stores repo_interfaces.Stores) (service_interfaces.MutationResult, error),
) (service_interfaces.MutationResult, error) {
	keys := make([]string, 0, len(accountNumbers))
	for _, number := range accountNumbers {
		keys = append(keys, accountKey(number))
	}

	unlock, err := s.locker.Lock(ctx, keys...)
	if err != nil {
		return service_interfaces.MutationResult{}, commons.Transient(err)
	}
	defer unlock()

	var result service_interfaces.MutationResult
	err = s.transactor.WithinTx(ctx, func(ctx context.Context, stores repo_interfaces.Stores) error {
		var err error
		result, err = fn(ctx, stores)
		return err
	})
	if err != nil {
		return service_interfaces.MutationResult{}, commons.Classify(err)
	}

	return result, nil
}

// loadOwnedAccount hides accounts the actor does not own behind ErrNotFound.
func loadOwnedAccount(ctx context.Context, accounts repo_interfaces.AccountRepository, accountNumber string, actor string) (domain.Account, error) {
	account, err := loadActiveAccount(ctx, accounts, accountNumber)
	if err != nil {
		return domain.Account{}, err
	}
	if !account.OwnedBy(actor) {
		return domain.Account{}, commons.ErrNotFound
	}
	return account, nil
}

func loadActiveAccount(ctx context.Context, accounts repo_interfaces.AccountRepository, accountNumber string) (domain.Account, error) {
	if accountNumber == "" {
		return domain.Account{}, commons.ErrNotFound
	}

	account, err := accounts.Get(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return domain.Account{}, commons.ErrNotFound
		}
		return domain.Account{}, errors.Wrapf(err, "load account %s", accountNumber)
	}
	if !account.IsActive() {
		return domain.Account{}, commons.ErrNotFound
	}
	return account, nil
}

func stringPtr(value string) *string {
	return &value
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
