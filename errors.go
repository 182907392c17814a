package tradetracker

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a transaction, remote file, or revision does
// not exist. A missing remote snapshot is a benign empty state, so most
// callers treat this error as "nothing to do" rather than a failure.
var ErrNotFound = errors.New("not found")

// ErrAuthExpired reports that the remote store rejected the bearer token.
// The session is discarded when this surfaces; re-authenticating recovers.
var ErrAuthExpired = errors.New("authorization expired")

// ValidationError reports bad user input on a single field. It is always
// recovered locally and never reaches a remote call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// The validation failures the ledger mutations can return.
var (
	ErrAmountInvalid      = &ValidationError{Field: "amount", Reason: "must be a positive value"}
	ErrCurrencyMissing    = &ValidationError{Field: "currency", Reason: "no currency selected and no default configured"}
	ErrDescriptionMissing = &ValidationError{Field: "description", Reason: "must not be empty"}
	ErrDateMissing        = &ValidationError{Field: "date", Reason: "must be set"}
	ErrCommentMissing     = &ValidationError{Field: "comment", Reason: "must not be empty"}
)

// NetworkError wraps a transport failure talking to a remote service.
// The operation is abandoned and local state is left untouched.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
