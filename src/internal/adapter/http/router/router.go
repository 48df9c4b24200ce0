package router

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/api-sage/banking-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/banking-ledger/src/internal/commons"
	"github.com/api-sage/banking-ledger/src/internal/logger"
)

type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

// HealthChecker reports whether the store behind the API is reachable.
type HealthChecker func(ctx context.Context) error

type healthResponse struct {
	Status string `json:"status"`
}

func New(
	registrars []RouteRegistrar,
	authMiddleware func(http.Handler) http.Handler,
	health HealthChecker,
) http.Handler {
	mux := http.NewServeMux()
	registerSwaggerRoutes(mux)
	registerHealthRoute(mux, health)

	for _, registrar := range registrars {
		if registrar != nil {
			registrar.RegisterRoutes(mux, authMiddleware)
		}
	}

	return middleware.RequestID(mux)
}

func registerHealthRoute(mux *http.ServeMux, health HealthChecker) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		response := commons.SuccessResponse("ok", healthResponse{Status: "up"})
		if health != nil {
			if err := health(r.Context()); err != nil {
				logger.Error("health check failed", err, nil)
				status = http.StatusServiceUnavailable
				response = commons.ErrorResponse[healthResponse]("store unavailable")
			}
		}

		response = response.WithRequestID(middleware.RequestIDFromContext(r.Context()))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(response)
	})
}
