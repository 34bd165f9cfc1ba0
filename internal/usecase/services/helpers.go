package services

import (
	"strings"

	"github.com/agentbank/ledger/internal/commons"
	"github.com/agentbank/ledger/internal/domain"
)

// fail maps an error to the response envelope. Infrastructure errors
// carry CodeInternal and a generic message so storage detail never
// reaches callers.
func fail[T any](err error) (commons.Response[T], error) {
	code := domain.ErrorCode(err)
	message := err.Error()
	if code == domain.CodeInternal {
		message = "Unable to process request right now"
	}
	return commons.ErrorResponse[T](message, code), err
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func stringPtr(value string) *string {
	return &value
}
