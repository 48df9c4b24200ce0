package models

import (
	"time"

	"github.com/api-sage/banking-ledger/src/internal/commons"
	"github.com/api-sage/banking-ledger/src/internal/domain"
)

type DepositRequest struct {
	Amount      Amount `json:"amount" validate:"required"`
	Description string `json:"description,omitempty" validate:"max=255"`
}

func (r DepositRequest) Validate() error {
	return validateStruct(r)
}

type WithdrawRequest struct {
	Amount      Amount `json:"amount" validate:"required"`
	Description string `json:"description,omitempty" validate:"max=255"`
}

func (r WithdrawRequest) Validate() error {
	return validateStruct(r)
}

type TransferRequest struct {
	SenderAccountNumber   string `json:"senderAccountNumber" validate:"required"`
	ReceiverAccountNumber string `json:"receiverAccountNumber" validate:"required"`
	Amount                Amount `json:"amount" validate:"required"`
	Description           string `json:"description,omitempty" validate:"max=255"`
}

func (r TransferRequest) Validate() error {
	return validateStruct(r)
}

// MutationResponse answers every balance mutation with the new balance of the
// account acted on and the id of the ledger entry.
type MutationResponse struct {
	AccountNumber string              `json:"accountNumber"`
	Balance       string              `json:"balance"`
	TransactionID int64               `json:"transactionId"`
	Transaction   TransactionResponse `json:"transaction"`
}

type TransactionResponse struct {
	ID                    int64   `json:"id"`
	TransactionType       string  `json:"transactionType"`
	SenderAccountNumber   *string `json:"senderAccountNumber"`
	ReceiverAccountNumber *string `json:"receiverAccountNumber"`
	Amount                string  `json:"amount"`
	Description           *string `json:"description,omitempty"`
	CreatedAt             string  `json:"createdAt"`
}

func NewTransactionResponse(transaction domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                    transaction.ID,
		TransactionType:       string(transaction.Type),
		SenderAccountNumber:   transaction.SenderAccountNumber,
		ReceiverAccountNumber: transaction.ReceiverAccountNumber,
		Amount:                commons.FormatAmount(transaction.Amount),
		Description:           transaction.Description,
		CreatedAt:             transaction.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func NewTransactionResponses(transactions []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		out = append(out, NewTransactionResponse(transaction))
	}
	return out
}
