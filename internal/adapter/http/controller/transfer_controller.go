package controller

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/agentbank/ledger/internal/adapter/http/models"
	"github.com/agentbank/ledger/internal/usecase/service_interfaces"
)

type TransferController struct {
	transfers service_interfaces.TransferService
	requests  service_interfaces.PaymentRequestService
}

func NewTransferController(transfers service_interfaces.TransferService, requests service_interfaces.PaymentRequestService) *TransferController {
	return &TransferController{transfers: transfers, requests: requests}
}

func (c *TransferController) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/transfer", c.internal).Methods(http.MethodPost)
	protected.HandleFunc("/transfer/agent", c.toAgent).Methods(http.MethodPost)
	protected.HandleFunc("/transfer/request", c.createRequest).Methods(http.MethodPost)
	protected.HandleFunc("/transfer/requests", c.listRequests).Methods(http.MethodGet)
	protected.HandleFunc("/transfer/requests/{id}/approve", c.approveRequest).Methods(http.MethodPost)
	protected.HandleFunc("/transfer/requests/{id}/reject", c.rejectRequest).Methods(http.MethodPost)
}

func (c *TransferController) internal(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	var req models.InternalTransferRequest
	if !decode(w, r, start, &req) {
		return
	}
	logRequest(r, req)

	response, err := c.transfers.Internal(r.Context(), agent.ID, req)
	send(w, r, start, http.StatusOK, response, err)
}

func (c *TransferController) toAgent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	var req models.AgentTransferRequest
	if !decode(w, r, start, &req) {
		return
	}
	logRequest(r, req)

	response, err := c.transfers.ToAgent(r.Context(), agent, req)
	send(w, r, start, http.StatusOK, response, err)
}

func (c *TransferController) createRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	var req models.CreatePaymentRequestRequest
	if !decode(w, r, start, &req) {
		return
	}
	logRequest(r, req)

	response, err := c.requests.Create(r.Context(), agent, req)
	send(w, r, start, http.StatusCreated, response, err)
}

func (c *TransferController) listRequests(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	direction := r.URL.Query().Get("type")
	includeAll := r.URL.Query().Get("include_all") == "true"

	response, err := c.requests.List(r.Context(), agent, direction, includeAll)
	send(w, r, start, http.StatusOK, response, err)
}

func (c *TransferController) approveRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	response, err := c.requests.Approve(r.Context(), agent, mux.Vars(r)["id"])
	send(w, r, start, http.StatusOK, response, err)
}

func (c *TransferController) rejectRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	response, err := c.requests.Reject(r.Context(), agent, mux.Vars(r)["id"])
	send(w, r, start, http.StatusOK, response, err)
}
