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

// QueryService serves read-only views straight from the stores, without locks.
type QueryService struct {
	accounts     repo_interfaces.AccountRepository
	transactions repo_interfaces.TransactionRepository
}

var _ service_interfaces.QueryService = (*QueryService)(nil)

func NewQueryService(accounts repo_interfaces.AccountRepository, transactions repo_interfaces.TransactionRepository) *QueryService {
	return &QueryService{
		accounts:     accounts,
		transactions: transactions,
	}
}

func (s *QueryService) ListAccounts(ctx context.Context, owner string) ([]domain.Account, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return []domain.Account{}, nil
	}

	accounts, err := s.accounts.GetByOwner(ctx, owner)
	if err != nil {
		logger.Error("query service list accounts failed", err, logger.Fields{
			"owner": owner,
		})
		return nil, commons.Transient(err)
	}

	return accounts, nil
}

func (s *QueryService) GetAccount(ctx context.Context, accountNumber string, actor string) (domain.Account, error) {
	account, err := loadOwnedAccount(ctx, s.accounts, strings.TrimSpace(accountNumber), actor)
	if err != nil {
		err = commons.Classify(err)
		if !errors.Is(err, commons.ErrNotFound) {
			logger.Error("query service get account failed", err, logger.Fields{
				"accountNumber": accountNumber,
			})
		}
		return domain.Account{}, err
	}

	return account, nil
}

// ListTransactions returns every entry touching the account, newest first. It
// answers ErrForbidden for unknown accounts as well as foreign ones. Closed
// accounts keep their history visible to the owner.
func (s *QueryService) ListTransactions(ctx context.Context, accountNumber string, actor string) ([]domain.Transaction, error) {
	logger.Info("query service list transactions request", logger.Fields{
		"accountNumber": accountNumber,
		"actor":         actor,
	})

	accountNumber = strings.TrimSpace(accountNumber)
	if accountNumber == "" || actor == "" {
		return nil, commons.ErrForbidden
	}

	account, err := s.accounts.Get(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return nil, commons.ErrForbidden
		}
		logger.Error("query service list transactions account lookup failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return nil, commons.Transient(err)
	}
	if account.Owner != actor {
		return nil, commons.ErrForbidden
	}

	transactions, err := s.transactions.QueryByAccount(ctx, accountNumber)
	if err != nil {
		logger.Error("query service list transactions failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return nil, commons.Transient(err)
	}

	logger.Info("query service list transactions success", logger.Fields{
		"accountNumber": accountNumber,
		"count":         len(transactions),
	})

	return transactions, nil
}
