package models

import (
	"time"

	"github.com/api-sage/banking-ledger/src/internal/commons"
	"github.com/api-sage/banking-ledger/src/internal/domain"
)

type CreateAccountRequest struct {
	AccountType    string `json:"accountType" validate:"required"`
	InitialBalance Amount `json:"initialBalance,omitempty"`
}

func (r CreateAccountRequest) Validate() error {
	return validateStruct(r)
}

type UpdateAccountRequest struct {
	AccountType string `json:"accountType" validate:"required"`
}

func (r UpdateAccountRequest) Validate() error {
	return validateStruct(r)
}

type AccountResponse struct {
	AccountNumber string `json:"accountNumber"`
	AccountType   string `json:"accountType"`
	Balance       string `json:"balance"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

func NewAccountResponse(account domain.Account) AccountResponse {
	return AccountResponse{
		AccountNumber: account.AccountNumber,
		AccountType:   string(account.Type),
		Balance:       commons.FormatAmount(account.Balance),
		Status:        string(account.Status),
		CreatedAt:     account.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     account.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func NewAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, NewAccountResponse(account))
	}
	return out
}

type DeleteAccountResponse struct {
	AccountNumber string `json:"accountNumber"`
	Closed        bool   `json:"closed"`
}
