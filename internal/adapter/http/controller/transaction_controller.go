package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/agentbank/ledger/internal/usecase/service_interfaces"
)

type TransactionController struct {
	service service_interfaces.TransactionService
}

func NewTransactionController(service service_interfaces.TransactionService) *TransactionController {
	return &TransactionController{service: service}
}

func (c *TransactionController) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/transactions", c.list).Methods(http.MethodGet)
}

func (c *TransactionController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	params := r.URL.Query()
	limit, _ := strconv.Atoi(params.Get("limit"))

	query := service_interfaces.TransactionQuery{
		AccountID: params.Get("account_id"),
		Type:      params.Get("type"),
		Limit:     limit,
	}

	response, err := c.service.List(r.Context(), agent.ID, query)
	send(w, r, start, http.StatusOK, response, err)
}
