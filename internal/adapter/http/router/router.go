package router

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// AgentRouteRegistrar mounts routes on both the public and the
// authenticated subrouter; registration and claiming happen before the
// caller has an API key.
type AgentRouteRegistrar interface {
	RegisterRoutes(public, protected *mux.Router)
}

// ProtectedRouteRegistrar mounts routes that require an authenticated
// agent.
type ProtectedRouteRegistrar interface {
	RegisterRoutes(protected *mux.Router)
}

// CronRouteRegistrar mounts the batch endpoints guarded by the cron
// secret.
type CronRouteRegistrar interface {
	RegisterRoutes(cron *mux.Router)
}

func New(
	agentController AgentRouteRegistrar,
	protectedControllers []ProtectedRouteRegistrar,
	cronController CronRouteRegistrar,
	authMiddleware func(http.Handler) http.Handler,
	cronMiddleware func(http.Handler) http.Handler,
) *mux.Router {
	root := mux.NewRouter()
	root.HandleFunc("/health", health).Methods(http.MethodGet)

	public := root.PathPrefix("/api/v1").Subrouter()

	protected := root.PathPrefix("/api/v1").Subrouter()
	if authMiddleware != nil {
		protected.Use(authMiddleware)
	}

	cron := root.PathPrefix("/api/cron").Subrouter()
	if cronMiddleware != nil {
		cron.Use(cronMiddleware)
	}

	if agentController != nil {
		agentController.RegisterRoutes(public, protected)
	}
	for _, c := range protectedControllers {
		if c != nil {
			c.RegisterRoutes(protected)
		}
	}
	if cronController != nil {
		cronController.RegisterRoutes(cron)
	}

	return root
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
