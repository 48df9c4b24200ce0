package service_interfaces

import (
	"github.com/shopspring/decimal"

	"github.com/api-sage/banking-ledger/src/internal/domain"
)

type DepositRequest struct {
	AccountNumber string
	Amount        string
	Actor         string
	Description   string
}

type WithdrawRequest struct {
	AccountNumber string
	Amount        string
	Actor         string
	Description   string
}

type TransferRequest struct {
	SenderAccountNumber   string
	ReceiverAccountNumber string
	Amount                string
	Actor                 string
	Description           string
}

// MutationResult carries the post-mutation balance of the account the caller
// acted on (the sender for transfers) and the ledger entry that recorded it.
type MutationResult struct {
	AccountNumber string
	Balance       decimal.Decimal
	Transaction   domain.Transaction
}

type CreateAccountRequest struct {
	Owner          string
	Type           string
	InitialBalance string
}

type UpdateAccountRequest struct {
	AccountNumber string
	Actor         string
	Type          string
}

// DeleteAccountResult reports whether the account row was kept as CLOSED because
// it has ledger history.
type DeleteAccountResult struct {
	AccountNumber string
	Closed        bool
}

type SignUpRequest struct {
	Username    string
	Password    string
	Email       string
	FullName    string
	PhoneNumber string
	Address     string
}

type SignUpResult struct {
	User    domain.User
	Account domain.Account
}
