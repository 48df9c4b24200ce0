package repo_interfaces

import "context"

// Stores are the repositories bound to one unit of work.
type Stores struct {
	Accounts     AccountRepository
	Transactions TransactionRepository
}

// Transactor runs fn as a single all-or-nothing unit across both stores. When fn
// returns an error nothing it wrote becomes visible.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}
