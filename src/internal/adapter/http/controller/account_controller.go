package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/banking-ledger/src/internal/commons"
	"github.com/api-sage/banking-ledger/src/internal/usecase/service_interfaces"
)

type AccountController struct {
	accounts service_interfaces.AccountService
	queries  service_interfaces.QueryService
}

func NewAccountController(accounts service_interfaces.AccountService, queries service_interfaces.QueryService) *AccountController {
	return &AccountController{accounts: accounts, queries: queries}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("GET /accounts", protect(c.listAccounts, authMiddleware))
	mux.Handle("POST /accounts", protect(c.createAccount, authMiddleware))
	mux.Handle("GET /accounts/{accountNumber}", protect(c.getAccount, authMiddleware))
	mux.Handle("PATCH /accounts/{accountNumber}", protect(c.updateAccount, authMiddleware))
	mux.Handle("DELETE /accounts/{accountNumber}", protect(c.deleteAccount, authMiddleware))
	mux.Handle("GET /accounts/{accountNumber}/transactions", protect(c.listTransactions, authMiddleware))
}

func (c *AccountController) listAccounts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	actor, ok := actorOrReject[[]models.AccountResponse](w, r, start)
	if !ok {
		return
	}

	accounts, err := c.queries.ListAccounts(r.Context(), actor)
	if err != nil {
		fail[[]models.AccountResponse](w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, commons.SuccessResponse("accounts fetched successfully", models.NewAccountResponses(accounts)), start)
}

func (c *AccountController) createAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	actor, ok := actorOrReject[models.AccountResponse](w, r, start)
	if !ok {
		return
	}

	var req models.CreateAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logError(r, err, nil)
		respond(w, r, http.StatusBadRequest, commons.ErrorResponse[models.AccountResponse]("invalid request body", err.Error()), start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		logError(r, err, nil)
		respond(w, r, http.StatusBadRequest, commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), start)
		return
	}

	account, err := c.accounts.CreateAccount(r.Context(), service_interfaces.CreateAccountRequest{
		Owner:          actor,
		Type:           req.AccountType,
		InitialBalance: req.InitialBalance.String(),
	})
	if err != nil {
		fail[models.AccountResponse](w, r, err, start)
		return
	}

	respond(w, r, http.StatusCreated, commons.SuccessResponse("account created successfully", models.NewAccountResponse(account)), start)
}

func (c *AccountController) getAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	actor, ok := actorOrReject[models.AccountResponse](w, r, start)
	if !ok {
		return
	}

	account, err := c.queries.GetAccount(r.Context(), r.PathValue("accountNumber"), actor)
	if err != nil {
		fail[models.AccountResponse](w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, commons.SuccessResponse("account fetched successfully", models.NewAccountResponse(account)), start)
}

func (c *AccountController) updateAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	actor, ok := actorOrReject[models.AccountResponse](w, r, start)
	if !ok {
		return
	}

	var req models.UpdateAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logError(r, err, nil)
		respond(w, r, http.StatusBadRequest, commons.ErrorResponse[models.AccountResponse]("invalid request body", err.Error()), start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		logError(r, err, nil)
		respond(w, r, http.StatusBadRequest, commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), start)
		return
	}

	account, err := c.accounts.UpdateAccount(r.Context(), service_interfaces.UpdateAccountRequest{
		AccountNumber: r.PathValue("accountNumber"),
		Actor:         actor,
		Type:          req.AccountType,
	})
	if err != nil {
		fail[models.AccountResponse](w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, commons.SuccessResponse("account updated successfully", models.NewAccountResponse(account)), start)
}

func (c *AccountController) deleteAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	actor, ok := actorOrReject[models.DeleteAccountResponse](w, r, start)
	if !ok {
		return
	}

	result, err := c.accounts.DeleteAccount(r.Context(), r.PathValue("accountNumber"), actor)
	if err != nil {
		fail[models.DeleteAccountResponse](w, r, err, start)
		return
	}

	message := "account deleted successfully"
	if result.Closed {
		message = "account closed, transaction history retained"
	}
	respond(w, r, http.StatusOK, commons.SuccessResponse(message, models.DeleteAccountResponse{
		AccountNumber: result.AccountNumber,
		Closed:        result.Closed,
	}), start)
}

func (c *AccountController) listTransactions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	actor, ok := actorOrReject[[]models.TransactionResponse](w, r, start)
	if !ok {
		return
	}

	transactions, err := c.queries.ListTransactions(r.Context(), r.PathValue("accountNumber"), actor)
	if err != nil {
		fail[[]models.TransactionResponse](w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, commons.SuccessResponse("transactions fetched successfully", models.NewTransactionResponses(transactions)), start)
}
