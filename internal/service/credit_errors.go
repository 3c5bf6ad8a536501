// FILE: internal/service/credit_errors.go
package service

import (
	"fmt"

	"github.com/google/uuid"
)

// The credit service owns the error taxonomy crossing its boundary. Raw
// repository errors never leak to controllers: they are wrapped into one of
// the types below first.

// InvalidActionParametersError is a caller error caught before pricing.
// No ledger interaction has happened.
type InvalidActionParametersError struct {
	Reason string
}

func (e *InvalidActionParametersError) Error() string {
	return fmt.Sprintf("invalid action parameters: %s", e.Reason)
}

// InsufficientCreditsError is recoverable by the end user (top-up).
// No transaction has been written.
type InsufficientCreditsError struct {
	Required  int
	Available int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: required %d, available %d", e.Required, e.Available)
}

// DebitFailedError is terminal for the attempt and has no side effect; the
// caller may retry the whole action. It wraps the transient store error that
// exhausted the retry budget.
type DebitFailedError struct {
	Err error
}

func (e *DebitFailedError) Error() string {
	return fmt.Sprintf("debit failed: %v", e.Err)
}

func (e *DebitFailedError) Unwrap() error {
	return e.Err
}

// GuardedActionFailedError wraps the caller-supplied action's failure after a
// successful debit. Refunded reports whether the compensating transaction was
// written; when it is true the balance is back where it started.
type GuardedActionFailedError struct {
	Err      error
	Refunded bool
}

func (e *GuardedActionFailedError) Error() string {
	if e.Refunded {
		return fmt.Sprintf("action failed (credits refunded): %v", e.Err)
	}
	return fmt.Sprintf("action failed: %v", e.Err)
}

func (e *GuardedActionFailedError) Unwrap() error {
	return e.Err
}

// RefundFailedError is the one condition the orchestrator cannot self-heal:
// the guarded action failed and the compensating refund could not be written.
// Credits may not have been restored; the error must reach an operator.
type RefundFailedError struct {
	AccountId        uuid.UUID
	Cost             int
	ConsumptionTxnId uuid.UUID
	OriginalErr      error
	Err              error
}

func (e *RefundFailedError) Error() string {
	return fmt.Sprintf(
		"refund of %d credits failed for account %s (credits may not have been restored): %v; original action error: %v",
		e.Cost, e.AccountId, e.Err, e.OriginalErr)
}

func (e *RefundFailedError) Unwrap() error {
	return e.Err
}
