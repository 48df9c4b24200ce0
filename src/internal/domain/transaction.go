package domain

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
)

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID                    int64
	Type                  TransactionType
	SenderAccountNumber   *string
	ReceiverAccountNumber *string
	Amount                decimal.Decimal
	Description           *string
	CreatedAt             time.Time
}

// Validate checks the party shape required by the entry type.
func (t Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return errors.New("transaction amount must be greater than zero")
	}

	hasSender := t.SenderAccountNumber != nil && *t.SenderAccountNumber != ""
	hasReceiver := t.ReceiverAccountNumber != nil && *t.ReceiverAccountNumber != ""

	switch t.Type {
	case TransactionTypeDeposit:
		if hasSender || !hasReceiver {
			return errors.New("deposit requires a receiver and no sender")
		}
	case TransactionTypeWithdrawal:
		if !hasSender || hasReceiver {
			return errors.New("withdrawal requires a sender and no receiver")
		}
	case TransactionTypeTransfer:
		if !hasSender || !hasReceiver {
			return errors.New("transfer requires a sender and a receiver")
		}
		if *t.SenderAccountNumber == *t.ReceiverAccountNumber {
			return errors.New("transfer sender and receiver must differ")
		}
	default:
		return errors.Errorf("unknown transaction type %q", t.Type)
	}

	return nil
}

// Involves reports whether the account is the sender or the receiver.
func (t Transaction) Involves(accountNumber string) bool {
	return (t.SenderAccountNumber != nil && *t.SenderAccountNumber == accountNumber) ||
		(t.ReceiverAccountNumber != nil && *t.ReceiverAccountNumber == accountNumber)
}

// SignedAmount is the effect of the entry on the given account balance.
func (t Transaction) SignedAmount(accountNumber string) decimal.Decimal {
	delta := decimal.Zero
	if t.ReceiverAccountNumber != nil && *t.ReceiverAccountNumber == accountNumber {
		delta = delta.Add(t.Amount)
	}
	if t.SenderAccountNumber != nil && *t.SenderAccountNumber == accountNumber {
		delta = delta.Sub(t.Amount)
	}
	return delta
}
