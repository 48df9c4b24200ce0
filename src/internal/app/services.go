package app

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/api-sage/banking-ledger/src/internal/adapter/http/controller"
	"github.com/api-sage/banking-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/banking-ledger/src/internal/adapter/http/router"
	"github.com/api-sage/banking-ledger/src/internal/adapter/repository/implementations"
	"github.com/api-sage/banking-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/banking-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/banking-ledger/src/internal/config"
	"github.com/api-sage/banking-ledger/src/internal/logger"
	"github.com/api-sage/banking-ledger/src/internal/usecase/service_interfaces"
	"github.com/api-sage/banking-ledger/src/internal/usecase/services"
)

// Injector will inject desired services into a target function.
type Injector func(function interface{}) error

// Storage is the repository set selected by DATABASE_DRIVER.
type Storage struct {
	Accounts     repo_interfaces.AccountRepository
	Transactions repo_interfaces.TransactionRepository
	Users        repo_interfaces.UserRepository
	Transactor   repo_interfaces.Transactor

	ping  func(ctx context.Context) error
	close func() error
}

func (s *Storage) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// BootstrapServices sets up the di container with all app services.
func BootstrapServices(ctx context.Context, cfg config.Config) (Injector, error) {
	c := dig.New()

	providers := []interface{}{
		func() (*Storage, error) {
			return openStorage(ctx, cfg)
		},
		func() *services.AccountLocker {
			return services.NewAccountLocker()
		},
		func() services.Clock {
			return services.NewSystemClock()
		},
		func(st *Storage, locker *services.AccountLocker, clock services.Clock) service_interfaces.LedgerService {
			return services.NewLedgerService(st.Transactor, locker, clock)
		},
		func(st *Storage, locker *services.AccountLocker, clock services.Clock) service_interfaces.AccountService {
			return services.NewAccountService(st.Transactor, locker, clock, cfg.MaxAccountsPerOwner)
		},
		func(st *Storage) service_interfaces.QueryService {
			return services.NewQueryService(st.Accounts, st.Transactions)
		},
		func(st *Storage, accounts service_interfaces.AccountService) service_interfaces.UserService {
			return services.NewUserService(st.Users, accounts)
		},
		func(
			st *Storage,
			users service_interfaces.UserService,
			accounts service_interfaces.AccountService,
			queries service_interfaces.QueryService,
			ledger service_interfaces.LedgerService,
		) http.Handler {
			registrars := []router.RouteRegistrar{
				controller.NewUserController(users),
				controller.NewAccountController(accounts, queries),
				controller.NewTransactionController(ledger),
			}
			return router.New(registrars, middleware.BasicAuth(users), st.Ping)
		},
	}

	for _, provider := range providers {
		if err := c.Provide(provider); err != nil {
			return nil, errors.Wrap(err, "register provider")
		}
	}

	return func(function interface{}) error {
		return c.Invoke(function)
	}, nil
}

func openStorage(ctx context.Context, cfg config.Config) (*Storage, error) {
	if cfg.DatabaseDriver == config.DriverMemory {
		logger.Info("storage using in-memory store", nil)
		store := memory.NewStore()
		return &Storage{
			Accounts:     store.Accounts(),
			Transactions: store.Transactions(),
			Users:        store.Users(),
			Transactor:   store,
		}, nil
	}

	dialect, err := implementations.DialectFor(cfg.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	db, err := implementations.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := implementations.RunMigrations(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("storage using sql store", logger.Fields{
		"driver":  cfg.DatabaseDriver,
		"dialect": string(dialect),
	})

	return &Storage{
		Accounts:     implementations.NewAccountRepository(db, dialect),
		Transactions: implementations.NewTransactionRepository(db),
		Users:        implementations.NewUserRepository(db),
		Transactor:   implementations.NewTransactor(db, dialect, cfg.TxMaxRetries),
		ping:         db.PingContext,
		close:        db.Close,
	}, nil
}
