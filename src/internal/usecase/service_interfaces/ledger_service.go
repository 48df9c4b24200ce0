package service_interfaces

import "context"

type LedgerService interface {
	Deposit(ctx context.Context, req DepositRequest) (MutationResult, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (MutationResult, error)
	Transfer(ctx context.Context, req TransferRequest) (MutationResult, error)
}
