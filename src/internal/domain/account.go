package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeSavings  AccountType = "SAVINGS"
)

type AccountStatus string

const (
	AccountStatusActive AccountStatus = "ACTIVE"
	AccountStatusClosed AccountStatus = "CLOSED"
)

type Account struct {
	AccountNumber string
	Owner         string
	Type          AccountType
	Balance       decimal.Decimal
	Status        AccountStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ParseAccountType accepts the enumeration case-insensitively.
func ParseAccountType(raw string) (AccountType, bool) {
	switch AccountType(strings.ToUpper(strings.TrimSpace(raw))) {
	case AccountTypeChecking:
		return AccountTypeChecking, true
	case AccountTypeSavings:
		return AccountTypeSavings, true
	default:
		return "", false
	}
}

func (a Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// OwnedBy reports whether the account is active and belongs to actor.
func (a Account) OwnedBy(actor string) bool {
	return a.IsActive() && actor != "" && a.Owner == actor
}
