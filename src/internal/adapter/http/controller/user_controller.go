package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/banking-ledger/src/internal/commons"
	"github.com/api-sage/banking-ledger/src/internal/usecase/service_interfaces"
)

type UserController struct {
	service service_interfaces.UserService
}

func NewUserController(service service_interfaces.UserService) *UserController {
	return &UserController{service: service}
}

// RegisterRoutes keeps sign-up public; it is how callers get credentials.
func (c *UserController) RegisterRoutes(mux *http.ServeMux, _ func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /signup", c.signUp)
}

func (c *UserController) signUp(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.SignUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logError(r, err, nil)
		respond(w, r, http.StatusBadRequest, commons.ErrorResponse[models.SignUpResponse]("invalid request body", err.Error()), start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		logError(r, err, nil)
		respond(w, r, http.StatusBadRequest, commons.ErrorResponse[models.SignUpResponse]("validation failed", err.Error()), start)
		return
	}

	result, err := c.service.SignUp(r.Context(), service_interfaces.SignUpRequest{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		fail[models.SignUpResponse](w, r, err, start)
		return
	}

	respond(w, r, http.StatusCreated, commons.SuccessResponse("user and bank account created successfully", models.SignUpResponse{
		UserID:   result.User.ID,
		Username: result.User.Username,
		Email:    result.User.Email,
		FullName: result.User.FullName,
		Account:  models.NewAccountResponse(result.Account),
	}), start)
}
