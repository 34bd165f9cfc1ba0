package controller

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/agentbank/ledger/internal/adapter/http/models"
	"github.com/agentbank/ledger/internal/usecase/service_interfaces"
)

type GoalController struct {
	service service_interfaces.GoalService
}

func NewGoalController(service service_interfaces.GoalService) *GoalController {
	return &GoalController{service: service}
}

func (c *GoalController) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/goals", c.create).Methods(http.MethodPost)
	protected.HandleFunc("/goals", c.list).Methods(http.MethodGet)
	protected.HandleFunc("/goals/{id}", c.update).Methods(http.MethodPatch, http.MethodPut)
}

func (c *GoalController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	var req models.CreateGoalRequest
	if !decode(w, r, start, &req) {
		return
	}
	logRequest(r, req)

	response, err := c.service.Create(r.Context(), agent.ID, req)
	send(w, r, start, http.StatusCreated, response, err)
}

func (c *GoalController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	response, err := c.service.List(r.Context(), agent.ID, r.URL.Query().Get("status"))
	send(w, r, start, http.StatusOK, response, err)
}

func (c *GoalController) update(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	agent, ok := agentOr401(w, r, start)
	if !ok {
		return
	}

	var req models.UpdateGoalRequest
	if !decode(w, r, start, &req) {
		return
	}
	logRequest(r, req)

	response, err := c.service.Update(r.Context(), agent.ID, mux.Vars(r)["id"], req)
	send(w, r, start, http.StatusOK, response, err)
}
