package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/banking-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/banking-ledger/src/internal/commons"
	"github.com/api-sage/banking-ledger/src/internal/config"
)

const testPassword = "correct-horse-1"

type apiClient struct {
	t       *testing.T
	handler http.Handler
}

func (c apiClient) do(method, path, username string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&payload).Encode(body))
	}

	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if username != "" {
		req.SetBasicAuth(username, testPassword)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope commons.Response[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	require.True(t, envelope.Success, rec.Body.String())
	require.NotNil(t, envelope.Data)
	return *envelope.Data
}

func bootstrap(t *testing.T, cfg config.Config) (http.Handler, *Storage) {
	t.Helper()

	injector, err := BootstrapServices(context.Background(), cfg)
	require.NoError(t, err)

	var handler http.Handler
	var storage *Storage
	require.NoError(t, injector(func(h http.Handler, st *Storage) {
		handler = h
		storage = st
	}))
	t.Cleanup(func() { _ = storage.Close() })

	return handler, storage
}

func TestBootstrapServicesEndToEnd(t *testing.T) {
	drivers := []config.Config{
		{
			DatabaseDriver:      config.DriverMemory,
			MaxAccountsPerOwner: 3,
			TxMaxRetries:        3,
			ShutdownTimeout:     time.Second,
		},
		{
			DatabaseDriver:      config.DriverSQLite,
			DatabaseDSN:         ":memory:?_foreign_keys=1",
			MaxAccountsPerOwner: 3,
			TxMaxRetries:        3,
			ShutdownTimeout:     time.Second,
		},
	}

	for _, cfg := range drivers {
		t.Run(cfg.DatabaseDriver, func(t *testing.T) {
			handler, _ := bootstrap(t, cfg)
			api := apiClient{t: t, handler: handler}

			for _, username := range []string{"alice", "bob"} {
				rec := api.do(http.MethodPost, "/signup", "", models.SignUpRequest{
					Username: username,
					Password: testPassword,
					Email:    username + "@example.com",
					FullName: username,
				})
				require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
				signUp := decodeData[models.SignUpResponse](t, rec)
				assert.Equal(t, "ACC-"+username+"-1", signUp.Account.AccountNumber)
				assert.Equal(t, "SAVINGS", signUp.Account.AccountType)
				assert.Equal(t, "0.00", signUp.Account.Balance)
			}

			rec := api.do(http.MethodPost, "/signup", "", models.SignUpRequest{
				Username: "alice",
				Password: testPassword,
				Email:    "alice@example.com",
				FullName: "alice",
			})
			assert.Equal(t, http.StatusConflict, rec.Code)

			rec = api.do(http.MethodPost, "/accounts", "alice", models.CreateAccountRequest{AccountType: "CHECKING"})
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			assert.Equal(t, "ACC-alice-2", decodeData[models.AccountResponse](t, rec).AccountNumber)

			rec = api.do(http.MethodPost, "/accounts/ACC-alice-1/deposit", "alice", models.DepositRequest{Amount: "100.00"})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "100.00", decodeData[models.MutationResponse](t, rec).Balance)

			rec = api.do(http.MethodPost, "/transfers", "alice", models.TransferRequest{
				SenderAccountNumber:   "ACC-alice-1",
				ReceiverAccountNumber: "ACC-bob-1",
				Amount:                "30.50",
				Description:           "rent",
			})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			transfer := decodeData[models.MutationResponse](t, rec)
			assert.Equal(t, "ACC-alice-1", transfer.AccountNumber)
			assert.Equal(t, "69.50", transfer.Balance)

			rec = api.do(http.MethodPost, "/accounts/ACC-alice-1/withdraw", "alice", models.WithdrawRequest{Amount: "1000.00"})
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			rec = api.do(http.MethodGet, "/accounts/ACC-bob-1", "bob", nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "30.50", decodeData[models.AccountResponse](t, rec).Balance)

			rec = api.do(http.MethodGet, "/accounts/ACC-alice-1/transactions", "alice", nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			history := decodeData[[]models.TransactionResponse](t, rec)
			require.Len(t, history, 2)
			assert.Equal(t, "TRANSFER", history[0].TransactionType)
			assert.Equal(t, "DEPOSIT", history[1].TransactionType)

			rec = api.do(http.MethodGet, "/accounts/ACC-alice-1/transactions", "bob", nil)
			assert.Equal(t, http.StatusForbidden, rec.Code)

			rec = api.do(http.MethodGet, "/accounts/ACC-alice-1", "bob", nil)
			assert.Equal(t, http.StatusNotFound, rec.Code)

			rec = api.do(http.MethodDelete, "/accounts/ACC-alice-1", "alice", nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.True(t, decodeData[models.DeleteAccountResponse](t, rec).Closed)

			rec = api.do(http.MethodGet, "/accounts", "alice", nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			accounts := decodeData[[]models.AccountResponse](t, rec)
			require.Len(t, accounts, 1)
			assert.Equal(t, "ACC-alice-2", accounts[0].AccountNumber)

			rec = api.do(http.MethodGet, "/healthz", "", nil)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestBootstrapServicesRejectsUnknownCredentials(t *testing.T) {
	handler, _ := bootstrap(t, config.Config{
		DatabaseDriver:      config.DriverMemory,
		MaxAccountsPerOwner: 3,
	})
	api := apiClient{t: t, handler: handler}

	rec := api.do(http.MethodGet, "/accounts", "nobody", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

	rec = api.do(http.MethodGet, "/accounts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBootstrapServicesUnsupportedDriver(t *testing.T) {
	injector, err := BootstrapServices(context.Background(), config.Config{DatabaseDriver: "oracle"})
	require.NoError(t, err)

	err = injector(func(h http.Handler) {})
	assert.Error(t, err)
}
