package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agentbank/ledger/internal/domain"
)

type authenticatorFunc func(ctx context.Context, apiKey string) (domain.Agent, error)

func (f authenticatorFunc) Authenticate(ctx context.Context, apiKey string) (domain.Agent, error) {
	return f(ctx, apiKey)
}

func TestAPIKey_AllowsValidKey(t *testing.T) {
	mw := APIKey(authenticatorFunc(func(_ context.Context, apiKey string) (domain.Agent, error) {
		if apiKey != "agentbank_validkey" {
			t.Fatalf("unexpected api key %q", apiKey)
		}
		return domain.Agent{ID: "a-1", Name: "research_bot", IsActive: true}, nil
	}))

	var seen domain.Agent
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent, ok := AgentFromContext(r.Context())
		if !ok {
			t.Fatal("expected agent in request context")
		}
		seen = agent
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set("Authorization", "Bearer agentbank_validkey")

	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if seen.ID != "a-1" {
		t.Fatalf("expected agent a-1, got %q", seen.ID)
	}
}

func TestAPIKey_RejectsMissingHeader(t *testing.T) {
	mw := APIKey(authenticatorFunc(func(context.Context, string) (domain.Agent, error) {
		t.Fatal("authenticator should not be called")
		return domain.Agent{}, nil
	}))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)

	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestAPIKey_RejectsBadKey(t *testing.T) {
	mw := APIKey(authenticatorFunc(func(context.Context, string) (domain.Agent, error) {
		return domain.Agent{}, domain.NewError(domain.CodeUnauthorized, "Invalid API key")
	}))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set("Authorization", "Bearer agentbank_wrong")

	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}
