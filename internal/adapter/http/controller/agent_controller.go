package controller

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/agentbank/ledger/internal/adapter/http/models"
	"github.com/agentbank/ledger/internal/usecase/service_interfaces"
)

type AgentController struct {
	service service_interfaces.AgentService
}

func NewAgentController(service service_interfaces.AgentService) *AgentController {
	return &AgentController{service: service}
}

func (c *AgentController) RegisterRoutes(public, protected *mux.Router) {
	public.HandleFunc("/agents/register", c.register).Methods(http.MethodPost)
	public.HandleFunc("/claim/{token}", c.claimInfo).Methods(http.MethodGet)
	public.HandleFunc("/claim/{token}/verify", c.claimVerify).Methods(http.MethodPost)

	protected.HandleFunc("/agents/me", c.profile).Methods(http.MethodGet)
	protected.HandleFunc("/agents/me", c.updateProfile).Methods(http.MethodPatch, http.MethodPut)
	protected.HandleFunc("/agents/me", c.deactivate).Methods(http.MethodDelete)
}

func (c *AgentController) deactivate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	response, err := c.service.Deactivate(r.Context(), agent)
	send(w, r, start, http.StatusOK, response, err)
}

func (c *AgentController) register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.RegisterAgentRequest
	if !decode(w, r, start, &req) {
		return
	}

	response, err := c.service.Register(r.Context(), req)
	send(w, r, start, http.StatusCreated, response, err)
}

func (c *AgentController) claimInfo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ClaimInfo(r.Context(), mux.Vars(r)["token"])
	send(w, r, start, http.StatusOK, response, err)
}

func (c *AgentController) claimVerify(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.ClaimVerifyRequest
	if !decode(w, r, start, &req) {
		return
	}

	response, err := c.service.Claim(r.Context(), mux.Vars(r)["token"], req)
	send(w, r, start, http.StatusOK, response, err)
}

func (c *AgentController) profile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	response, err := c.service.Profile(r.Context(), agent)
	send(w, r, start, http.StatusOK, response, err)
}

func (c *AgentController) updateProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if !decode(w, r, start, &req) {
		return
	}
	logRequest(r, req)

	response, err := c.service.UpdateProfile(r.Context(), agent, req)
	send(w, r, start, http.StatusOK, response, err)
}
