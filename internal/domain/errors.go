package domain

import (
	"errors"
	"fmt"
)

// Stable error codes exposed to callers. These are part of the API
// contract and must not change between releases.
const (
	CodeInvalidType            = "INVALID_TYPE"
	CodeInvalidCDTerm          = "INVALID_CD_TERM"
	CodeInvalidAmount          = "INVALID_AMOUNT"
	CodeAmountTooLarge         = "AMOUNT_TOO_LARGE"
	CodeMinBalanceRequired     = "MIN_BALANCE_REQUIRED"
	CodeInsufficientFunds      = "INSUFFICIENT_FUNDS"
	CodeAccountNotFound        = "ACCOUNT_NOT_FOUND"
	CodeAccountInactive        = "ACCOUNT_INACTIVE"
	CodeNoChecking             = "NO_CHECKING"
	CodeNoRecipientAccount     = "NO_RECIPIENT_ACCOUNT"
	CodeWithdrawalLimit        = "WITHDRAWAL_LIMIT"
	CodeWithdrawalLimitReached = "WITHDRAWAL_LIMIT_REACHED"
	CodeUseTransfer            = "USE_TRANSFER"
	CodeInvalidDestination     = "INVALID_DESTINATION"
	CodeCDNoDeposit            = "CD_NO_DEPOSIT"
	CodeCDNoWithdraw           = "CD_NO_WITHDRAW"
	CodeCDNotMatured           = "CD_NOT_MATURED"
	CodeCDMatured              = "CD_MATURED"
	CodeCDInactive             = "CD_INACTIVE"
	CodeNotCDAccount           = "NOT_CD_ACCOUNT"
	CodeAgentNotFound          = "AGENT_NOT_FOUND"
	CodeAgentInactive          = "AGENT_INACTIVE"
	CodeSelfTransfer           = "SELF_TRANSFER"
	CodeSelfDonation           = "SELF_DONATION"
	CodeSelfRequest            = "SELF_REQUEST"
	CodeMissingRecipient       = "MISSING_RECIPIENT"
	CodeConflictingRecipient   = "CONFLICTING_RECIPIENT"
	CodeDuplicateRequest       = "DUPLICATE_REQUEST"
	CodeRequestNotFound        = "REQUEST_NOT_FOUND"
	CodeNotYourRequest         = "NOT_YOUR_REQUEST"
	CodeAlreadyResponded       = "ALREADY_RESPONDED"
	CodeRequestExpired         = "REQUEST_EXPIRED"
	CodeMissingName            = "MISSING_NAME"
	CodeInvalidName            = "INVALID_NAME"
	CodeNameTaken              = "NAME_TAKEN"
	CodeNameTooLong            = "NAME_TOO_LONG"
	CodeAlreadyClaimed         = "ALREADY_CLAIMED"
	CodeInvalidCode            = "INVALID_CODE"
	CodeClaimNotFound          = "CLAIM_NOT_FOUND"
	CodeGoalNotFound           = "GOAL_NOT_FOUND"
	CodeInvalidStatus          = "INVALID_STATUS"
	CodeInvalidDate            = "INVALID_DATE"
	CodeDateInPast             = "DATE_IN_PAST"
	CodeExceedsTarget          = "EXCEEDS_TARGET"
	CodeCannotReactivate       = "CANNOT_REACTIVATE"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeInternal               = "INTERNAL_ERROR"
)

// Error is a typed, caller-safe failure. Code is stable; Message is
// human-readable and may carry entity-specific detail.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Errorf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrorCode returns the stable code carried by err, or CodeInternal for
// infrastructure failures that must not leak detail to callers.
func ErrorCode(err error) string {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Code
	}
	return CodeInternal
}

func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}

var ErrRecordNotFound = errors.New("record not found")

var (
	ErrInvalidAmount     = NewError(CodeInvalidAmount, "Amount must be positive")
	ErrInsufficientFunds = NewError(CodeInsufficientFunds, "Insufficient funds")
	ErrAccountNotFound   = NewError(CodeAccountNotFound, "Account not found")
	ErrAccountInactive   = NewError(CodeAccountInactive, "Account is not active")
	ErrNoChecking        = NewError(CodeNoChecking, "No active checking account found")
	ErrAgentNotFound     = NewError(CodeAgentNotFound, "Recipient agent not found")
	ErrAgentInactive     = NewError(CodeAgentInactive, "Recipient agent is not active")
	ErrInvalidCDTerm     = NewError(CodeInvalidCDTerm, "CD term must be 3, 6, or 12 months")
)
