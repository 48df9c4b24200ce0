package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/api-sage/banking-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/banking-ledger/src/internal/commons"
	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/logger"
	"github.com/api-sage/banking-ledger/src/internal/usecase/service_interfaces"
)

type UserService struct {
	userRepo       repo_interfaces.UserRepository
	accountService service_interfaces.AccountService
	hashCost       int
}

var _ service_interfaces.UserService = (*UserService)(nil)

func NewUserService(userRepo repo_interfaces.UserRepository, accountService service_interfaces.AccountService) *UserService {
	return &UserService{
		userRepo:       userRepo,
		accountService: accountService,
		hashCost:       bcrypt.DefaultCost,
	}
}

// SignUp registers the user and opens their default SAVINGS account with a zero
// balance.
func (s *UserService) SignUp(ctx context.Context, req service_interfaces.SignUpRequest) (service_interfaces.SignUpResult, error) {
	logger.Info("user service sign up request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return service_interfaces.SignUpResult{}, commons.Validationf("username is required")
	}
	if req.Password == "" {
		return service_interfaces.SignUpResult{}, commons.Validationf("password is required")
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		logger.Error("user service sign up lookup failed", err, logger.Fields{
			"username": username,
		})
		return service_interfaces.SignUpResult{}, commons.Transient(err)
	}
	if exists {
		return service_interfaces.SignUpResult{}, commons.ErrUserExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return service_interfaces.SignUpResult{}, errors.Wrap(err, "hash password")
	}

	user, err := s.userRepo.Create(ctx, domain.User{
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		FullName:     strings.TrimSpace(req.FullName),
		PhoneNumber:  optionalString(req.PhoneNumber),
		Address:      optionalString(req.Address),
		PasswordHash: string(passwordHash),
	})
	if err != nil {
		err = commons.Classify(err)
		logger.Error("user service sign up create failed", err, logger.Fields{
			"username": username,
		})
		return service_interfaces.SignUpResult{}, err
	}

	account, err := s.accountService.CreateAccount(ctx, service_interfaces.CreateAccountRequest{
		Owner:          user.Username,
		Type:           string(domain.AccountTypeSavings),
		InitialBalance: "0.00",
	})
	if err != nil {
		logger.Error("user service sign up default account failed", err, logger.Fields{
			"username": username,
		})
		return service_interfaces.SignUpResult{}, err
	}

	logger.Info("user service sign up success", logger.Fields{
		"userId":        user.ID,
		"username":      user.Username,
		"accountNumber": account.AccountNumber,
	})

	return service_interfaces.SignUpResult{User: user, Account: account}, nil
}

func (s *UserService) Authenticate(ctx context.Context, username string, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", commons.ErrUnauthorized
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return "", commons.ErrUnauthorized
		}
		logger.Error("user service authenticate lookup failed", err, logger.Fields{
			"username": username,
		})
		return "", commons.Transient(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.Info("user service authenticate mismatch", logger.Fields{
				"username": username,
			})
			return "", commons.ErrUnauthorized
		}
		return "", errors.Wrap(err, "compare password hash")
	}

	return user.Username, nil
}
