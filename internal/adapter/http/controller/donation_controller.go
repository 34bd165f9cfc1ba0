package controller

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/agentbank/ledger/internal/adapter/http/models"
	"github.com/agentbank/ledger/internal/usecase/service_interfaces"
)

type DonationController struct {
	service service_interfaces.DonationService
}

func NewDonationController(service service_interfaces.DonationService) *DonationController {
	return &DonationController{service: service}
}

func (c *DonationController) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/donate", c.donate).Methods(http.MethodPost)
	protected.HandleFunc("/donations", c.history).Methods(http.MethodGet)
}

func (c *DonationController) donate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	var req models.DonationRequest
	if !decode(w, r, start, &req) {
		return
	}
	logRequest(r, req)

	response, err := c.service.Donate(r.Context(), agent, req)
	send(w, r, start, http.StatusCreated, response, err)
}

func (c *DonationController) history(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	response, err := c.service.History(r.Context(), agent.ID)
	send(w, r, start, http.StatusOK, response, err)
}
