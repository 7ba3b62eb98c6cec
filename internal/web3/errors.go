package web3

import (
	"errors"
	"strings"

	"github.com/z1shivam/blocklift/internal/wallet"
)

// FailureCode categorizes a failed state-changing operation so the caller
// can show an appropriate message.
type FailureCode string

const (
	FailureValidation        FailureCode = "validation"
	FailureUserCancelled     FailureCode = "user_cancelled"
	FailureInsufficientFunds FailureCode = "insufficient_funds"
	FailureReverted          FailureCode = "reverted"
)

// ErrCampaignNotFound marks a read for a campaign the contract rejected.
// Transport failures surface as ordinary wrapped errors so callers can tell
// "no such campaign" from "node unreachable".
var ErrCampaignNotFound = errors.New("campaign not found")

// ValidationError reports a client-side rule violation. It is raised before
// any network call and is a distinct type from contract or network failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// classify maps a transaction failure onto the user-facing taxonomy.
func classify(err error) (FailureCode, string) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return FailureValidation, vErr.Message
	}
	if errors.Is(err, wallet.ErrApprovalDenied) {
		return FailureUserCancelled, "Transaction cancelled by user"
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "insufficient funds") || strings.Contains(lower, "insufficient balance") {
		return FailureInsufficientFunds, "Insufficient funds for transaction"
	}
	if reason, ok := revertReason(msg); ok {
		return FailureReverted, "Transaction reverted: " + reason
	}
	return FailureReverted, msg
}

// revertReason extracts the contract's reason string from an
// "execution reverted: ..." error, when present.
func revertReason(msg string) (string, bool) {
	const marker = "execution reverted"
	i := strings.Index(strings.ToLower(msg), marker)
	if i < 0 {
		return "", false
	}
	reason := strings.TrimPrefix(msg[i+len(marker):], ":")
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "no reason given"
	}
	return reason, true
}

// isRevert reports whether a call failed inside the contract rather than in
// transport. Reverted detail reads degrade to ErrCampaignNotFound.
func isRevert(err error) bool {
	if err == nil {
		return false
	}
	_, ok := revertReason(err.Error())
	return ok
}
