package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func ref(value string) *string { return &value }

func TestTransactionValidate(t *testing.T) {
	amount := decimal.RequireFromString("10.00")

	tests := []struct {
		name    string
		tx      Transaction
		wantErr bool
	}{
		{name: "deposit", tx: Transaction{Type: TransactionTypeDeposit, ReceiverAccountNumber: ref("A"), Amount: amount}},
		{name: "withdrawal", tx: Transaction{Type: TransactionTypeWithdrawal, SenderAccountNumber: ref("A"), Amount: amount}},
		{name: "transfer", tx: Transaction{Type: TransactionTypeTransfer, SenderAccountNumber: ref("A"), ReceiverAccountNumber: ref("B"), Amount: amount}},
		{name: "deposit with sender", tx: Transaction{Type: TransactionTypeDeposit, SenderAccountNumber: ref("A"), ReceiverAccountNumber: ref("B"), Amount: amount}, wantErr: true},
		{name: "withdrawal without sender", tx: Transaction{Type: TransactionTypeWithdrawal, Amount: amount}, wantErr: true},
		{name: "transfer to itself", tx: Transaction{Type: TransactionTypeTransfer, SenderAccountNumber: ref("A"), ReceiverAccountNumber: ref("A"), Amount: amount}, wantErr: true},
		{name: "zero amount", tx: Transaction{Type: TransactionTypeDeposit, ReceiverAccountNumber: ref("A"), Amount: decimal.Zero}, wantErr: true},
		{name: "unknown type", tx: Transaction{Type: "REFUND", ReceiverAccountNumber: ref("A"), Amount: amount}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransactionSignedAmount(t *testing.T) {
	tx := Transaction{
		Type:                  TransactionTypeTransfer,
		SenderAccountNumber:   ref("A"),
		ReceiverAccountNumber: ref("B"),
		Amount:                decimal.RequireFromString("20.00"),
	}

	assert.True(t, tx.SignedAmount("A").Equal(decimal.RequireFromString("-20.00")))
	assert.True(t, tx.SignedAmount("B").Equal(decimal.RequireFromString("20.00")))
	assert.True(t, tx.SignedAmount("C").IsZero())
	assert.True(t, tx.Involves("A"))
	assert.False(t, tx.Involves("C"))
}

func TestParseAccountType(t *testing.T) {
	accountType, ok := ParseAccountType(" savings ")
	assert.True(t, ok)
	assert.Equal(t, AccountTypeSavings, accountType)

	_, ok = ParseAccountType("BROKERAGE")
	assert.False(t, ok)

	account := Account{Owner: "alice", Status: AccountStatusClosed}
	assert.False(t, account.OwnedBy("alice"))
	account.Status = AccountStatusActive
	assert.True(t, account.OwnedBy("alice"))
	assert.False(t, account.OwnedBy(""))
}
