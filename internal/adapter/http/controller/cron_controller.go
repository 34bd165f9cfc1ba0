package controller

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/agentbank/ledger/internal/usecase/service_interfaces"
)

// CronController exposes the batch jobs over HTTP for an external
// scheduler. The routes sit behind the cron-secret middleware, not the
// agent API key.
type CronController struct {
	service service_interfaces.InterestService
}

func NewCronController(service service_interfaces.InterestService) *CronController {
	return &CronController{service: service}
}

func (c *CronController) RegisterRoutes(cron *mux.Router) {
	cron.HandleFunc("/daily-interest", c.dailyInterest).Methods(http.MethodPost)
	cron.HandleFunc("/process-cds", c.processCDs).Methods(http.MethodPost)
	cron.HandleFunc("/monthly-reset", c.monthlyReset).Methods(http.MethodPost)
}

func (c *CronController) dailyInterest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.CreditDailyInterest(r.Context())
	send(w, r, start, http.StatusOK, response, err)
}

func (c *CronController) processCDs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ProcessMaturedCDs(r.Context())
	send(w, r, start, http.StatusOK, response, err)
}

func (c *CronController) monthlyReset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ResetMonthlyWithdrawals(r.Context())
	send(w, r, start, http.StatusOK, response, err)
}
