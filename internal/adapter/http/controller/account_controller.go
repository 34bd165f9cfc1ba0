package controller

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/agentbank/ledger/internal/adapter/http/models"
	"github.com/agentbank/ledger/internal/usecase/service_interfaces"
)

type AccountController struct {
	accounts service_interfaces.AccountService
	interest service_interfaces.InterestService
}

func NewAccountController(accounts service_interfaces.AccountService, interest service_interfaces.InterestService) *AccountController {
	return &AccountController{accounts: accounts, interest: interest}
}

func (c *AccountController) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/accounts", c.open).Methods(http.MethodPost)
	protected.HandleFunc("/accounts", c.list).Methods(http.MethodGet)
	protected.HandleFunc("/accounts/{id}", c.get).Methods(http.MethodGet)
	protected.HandleFunc("/accounts/{id}", c.updateSettings).Methods(http.MethodPatch, http.MethodPut)
	protected.HandleFunc("/accounts/{id}/deposit", c.deposit).Methods(http.MethodPost)
	protected.HandleFunc("/accounts/{id}/withdraw", c.withdraw).Methods(http.MethodPost)
	protected.HandleFunc("/accounts/{id}/early-withdraw", c.earlyWithdraw).Methods(http.MethodPost)
}

func (c *AccountController) open(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	var req models.OpenAccountRequest
	if !decode(w, r, start, &req) {
		return
	}
	logRequest(r, req)

	response, err := c.accounts.Open(r.Context(), agent.ID, req)
	send(w, r, start, http.StatusCreated, response, err)
}

func (c *AccountController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	response, err := c.accounts.List(r.Context(), agent.ID)
	send(w, r, start, http.StatusOK, response, err)
}

func (c *AccountController) get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	response, err := c.accounts.Get(r.Context(), agent.ID, mux.Vars(r)["id"])
	send(w, r, start, http.StatusOK, response, err)
}

func (c *AccountController) updateSettings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	var req models.UpdateAccountRequest
	if !decode(w, r, start, &req) {
		return
	}
	logRequest(r, req)

	response, err := c.accounts.UpdateSettings(r.Context(), agent.ID, mux.Vars(r)["id"], req)
	send(w, r, start, http.StatusOK, response, err)
}

func (c *AccountController) deposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	var req models.MoveFundsRequest
	if !decode(w, r, start, &req) {
		return
	}
	logRequest(r, req)

	response, err := c.accounts.Deposit(r.Context(), agent.ID, mux.Vars(r)["id"], req)
	send(w, r, start, http.StatusOK, response, err)
}

func (c *AccountController) withdraw(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	var req models.MoveFundsRequest
	if !decode(w, r, start, &req) {
		return
	}
	logRequest(r, req)

	response, err := c.accounts.Withdraw(r.Context(), agent.ID, mux.Vars(r)["id"], req)
	send(w, r, start, http.StatusOK, response, err)
}

func (c *AccountController) earlyWithdraw(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	var req models.EarlyWithdrawRequest
	if !decode(w, r, start, &req) {
		return
	}
	logRequest(r, req)

	response, err := c.interest.EarlyWithdrawCD(r.Context(), agent.ID, mux.Vars(r)["id"], req)
	send(w, r, start, http.StatusOK, response, err)
}
