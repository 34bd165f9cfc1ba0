package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/agentbank/ledger/internal/adapter/http/middleware"
	"github.com/agentbank/ledger/internal/commons"
	"github.com/agentbank/ledger/internal/domain"
	"github.com/agentbank/ledger/internal/logger"
)

func agentFromRequest(r *http.Request) (domain.Agent, bool) {
	return middleware.AgentFromContext(r.Context())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusForCode maps a stable error code to an HTTP status. Codes the
// table does not know default to 400: every typed failure is a caller
// problem unless it says otherwise.
func statusForCode(code string) int {
	switch code {
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeNotYourRequest:
		return http.StatusForbidden
	case domain.CodeAccountNotFound, domain.CodeAgentNotFound, domain.CodeRequestNotFound,
		domain.CodeGoalNotFound, domain.CodeClaimNotFound:
		return http.StatusNotFound
	case domain.CodeInternal:
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// send writes the service response: okStatus on success, the mapped
// error status otherwise.
func send[T any](w http.ResponseWriter, r *http.Request, start time.Time, okStatus int, response commons.Response[T], err error) {
	status := okStatus
	if err != nil {
		logError(r, err, logger.Fields{"code": response.Code})
		status = statusForCode(response.Code)
	}
	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}

// decode reads the JSON body into req. An empty body is allowed so
// endpoints with all-optional fields can be called without one.
func decode(w http.ResponseWriter, r *http.Request, start time.Time, req any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[struct{}]("Invalid request body", domain.CodeInvalidType, err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return false
	}
	return true
}

// agentOr401 pulls the authenticated agent placed in the context by the
// auth middleware.
func agentOr401(w http.ResponseWriter, r *http.Request, start time.Time) (domain.Agent, bool) {
	agent, ok := agentFromRequest(r)
	if !ok {
		response := commons.ErrorResponse[struct{}]("Authentication required", domain.CodeUnauthorized)
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return domain.Agent{}, false
	}
	return agent, true
}
