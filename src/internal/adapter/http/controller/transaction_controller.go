package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/banking-ledger/src/internal/commons"
	"github.com/api-sage/banking-ledger/src/internal/usecase/service_interfaces"
)

type TransactionController struct {
	ledger service_interfaces.LedgerService
}

func NewTransactionController(ledger service_interfaces.LedgerService) *TransactionController {
	return &TransactionController{ledger: ledger}
}

func (c *TransactionController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("POST /accounts/{accountNumber}/deposit", protect(c.deposit, authMiddleware))
	mux.Handle("POST /accounts/{accountNumber}/withdraw", protect(c.withdraw, authMiddleware))
	mux.Handle("POST /transfers", protect(c.transfer, authMiddleware))
}

func (c *TransactionController) deposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	actor, ok := actorOrReject[models.MutationResponse](w, r, start)
	if !ok {
		return
	}

	var req models.DepositRequest
	if !decodeMutation(w, r, &req, start) {
		return
	}

	result, err := c.ledger.Deposit(r.Context(), service_interfaces.DepositRequest{
		AccountNumber: r.PathValue("accountNumber"),
		Amount:        req.Amount.String(),
		Actor:         actor,
		Description:   req.Description,
	})
	if err != nil {
		fail[models.MutationResponse](w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, commons.SuccessResponse("deposit successful", mutationResponse(result)), start)
}

func (c *TransactionController) withdraw(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	actor, ok := actorOrReject[models.MutationResponse](w, r, start)
	if !ok {
		return
	}

	var req models.WithdrawRequest
	if !decodeMutation(w, r, &req, start) {
		return
	}

	result, err := c.ledger.Withdraw(r.Context(), service_interfaces.WithdrawRequest{
		AccountNumber: r.PathValue("accountNumber"),
		Amount:        req.Amount.String(),
		Actor:         actor,
		Description:   req.Description,
	})
	if err != nil {
		fail[models.MutationResponse](w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, commons.SuccessResponse("withdrawal successful", mutationResponse(result)), start)
}

func (c *TransactionController) transfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	actor, ok := actorOrReject[models.MutationResponse](w, r, start)
	if !ok {
		return
	}

	var req models.TransferRequest
	if !decodeMutation(w, r, &req, start) {
		return
	}

	result, err := c.ledger.Transfer(r.Context(), service_interfaces.TransferRequest{
		SenderAccountNumber:   req.SenderAccountNumber,
		ReceiverAccountNumber: req.ReceiverAccountNumber,
		Amount:                req.Amount.String(),
		Actor:                 actor,
		Description:           req.Description,
	})
	if err != nil {
		fail[models.MutationResponse](w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, commons.SuccessResponse("transfer successful", mutationResponse(result)), start)
}

type validatable interface {
	Validate() error
}

func decodeMutation(w http.ResponseWriter, r *http.Request, req validatable, start time.Time) bool {
	if err := decodeJSON(w, r, req); err != nil {
		logError(r, err, nil)
		respond(w, r, http.StatusBadRequest, commons.ErrorResponse[models.MutationResponse]("invalid request body", err.Error()), start)
		return false
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		logError(r, err, nil)
		respond(w, r, http.StatusBadRequest, commons.ErrorResponse[models.MutationResponse]("validation failed", err.Error()), start)
		return false
	}
	return true
}

func mutationResponse(result service_interfaces.MutationResult) models.MutationResponse {
	return models.MutationResponse{
		AccountNumber: result.AccountNumber,
		Balance:       commons.FormatAmount(result.Balance),
		TransactionID: result.Transaction.ID,
		Transaction:   models.NewTransactionResponse(result.Transaction),
	}
}
