package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/agentbank/ledger/internal/commons"
	"github.com/agentbank/ledger/internal/domain"
	"github.com/agentbank/ledger/internal/logger"
)

type contextKey string

const agentContextKey contextKey = "agent"

// Authenticator resolves a raw API key to an active agent.
type Authenticator interface {
	Authenticate(ctx context.Context, apiKey string) (domain.Agent, error)
}

// APIKey authenticates requests via "Authorization: Bearer <key>" and
// stores the resolved agent in the request context.
func APIKey(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := bearerToken(r)
			if key == "" {
				unauthorized(w, r, "Missing API key. Use Authorization: Bearer <key>")
				return
			}

			agent, err := auth.Authenticate(r.Context(), key)
			if err != nil {
				unauthorized(w, r, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), agentContextKey, agent)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AgentFromContext returns the agent stored by APIKey. The second value
// is false for requests that did not pass through the middleware.
func AgentFromContext(ctx context.Context) (domain.Agent, bool) {
	agent, ok := ctx.Value(agentContextKey).(domain.Agent)
	return agent, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	logger.Info("api key middleware unauthorized request", logger.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(commons.ErrorResponse[struct{}](message, domain.CodeUnauthorized))
}
