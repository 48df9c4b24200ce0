package middleware

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/api-sage/banking-ledger/src/internal/commons"
	"github.com/api-sage/banking-ledger/src/internal/logger"
)

type Authenticator interface {
	Authenticate(ctx context.Context, username string, password string) (string, error)
}

type actorKey struct{}

func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the authenticated user placed by BasicAuth.
func ActorFromContext(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(actorKey{}).(string)
	return actor, ok && actor != ""
}

// BasicAuth verifies the request credentials against the user store and passes
// the resulting actor down the request context.
func BasicAuth(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authenticator == nil {
				logger.Error("basic auth middleware missing authenticator", nil, logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "server auth configuration is missing", http.StatusInternalServerError)
				return
			}

			username, password, ok := r.BasicAuth()
			if !ok {
				unauthorized(w, r, "missing")
				return
			}

			actor, err := authenticator.Authenticate(r.Context(), username, password)
			if err != nil {
				if errors.Is(err, commons.ErrUnauthorized) {
					unauthorized(w, r, "invalid")
					return
				}
				logger.Error("basic auth middleware authenticator failed", err, logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "authentication temporarily unavailable", http.StatusServiceUnavailable)
				return
			}

			logger.Info("basic auth middleware authorized request", logger.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"actor":  actor,
			})
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, reason string) {
	logger.Info("basic auth middleware unauthorized request", logger.Fields{
		"method":      r.Method,
		"path":        r.URL.Path,
		"credentials": reason,
	})
	w.Header().Set("WWW-Authenticate", `Basic realm="banking-ledger"`)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}
