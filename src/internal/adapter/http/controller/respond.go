package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/api-sage/banking-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/banking-ledger/src/internal/commons"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(target)
}

func respond[T any](w http.ResponseWriter, r *http.Request, status int, response commons.Response[T], start time.Time) {
	response = response.WithRequestID(middleware.RequestIDFromContext(r.Context()))
	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}

// fail maps err onto an HTTP status and an error envelope.
func fail[T any](w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	status := statusFor(err)
	message, details := messageFor(err)

	logError(r, err, nil)
	respond(w, r, status, commons.ErrorResponse[T](message, details...), start)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, commons.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, commons.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, commons.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, commons.ErrAccountLimitExceeded), errors.Is(err, commons.ErrUserExists):
		return http.StatusConflict
	case commons.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, commons.ErrTransient):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error) (string, []string) {
	switch {
	case errors.Is(err, commons.ErrValidation):
		return "validation failed", []string{err.Error()}
	case commons.IsValidationError(err):
		return errors.Cause(err).Error(), nil
	case errors.Is(err, commons.ErrTransient):
		return "service temporarily unavailable", []string{"retry the request"}
	default:
		return "internal server error", nil
	}
}

// actorOrReject reads the authenticated actor and answers 401 when there is none.
func actorOrReject[T any](w http.ResponseWriter, r *http.Request, start time.Time) (string, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		respond(w, r, http.StatusUnauthorized, commons.ErrorResponse[T]("unauthorized"), start)
		return "", false
	}
	return actor, true
}

func protect(handler http.HandlerFunc, authMiddleware func(http.Handler) http.Handler) http.Handler {
	if authMiddleware == nil {
		return handler
	}
	return authMiddleware(handler)
}
