package board

import (
	"errors"
	"fmt"

	"github.com/linkring/linkring/internal/domain"
)

// The mutation protocol has exactly four failure taxa. All of them
// surface to the user the same way, as a short-lived error notice;
// none of them crosses the core as a panic.

// ValidationError is a missing required field, caught before any
// remote call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// GateError is a submission precondition failure (cooldown or
// engagement rule), caught before any remote call.
type GateError struct {
	Reason domain.GateReason
}

func (e *GateError) Error() string { return e.Reason.Message() }

// PrecursorError is a reaction attempted without a prior engagement,
// checked against the local replica before any remote call.
type PrecursorError struct{}

func (e *PrecursorError) Error() string {
	return "You must engage with the link before reacting to it."
}

// RemoteFailure is any store call that was rejected at the provider
// boundary. Notice carries the user-facing text for the operation
// that failed; partial effects of multi-step mutations are left
// as-is.
type RemoteFailure struct {
	Op     string
	Notice string
	Err    error
}

func (e *RemoteFailure) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteFailure) Unwrap() error { return e.Err }

// UserMessage maps any mutation error onto the notice text shown to
// the user.
func UserMessage(err error) string {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation.Msg
	}

	var gate *GateError
	if errors.As(err, &gate) {
		return gate.Reason.Message()
	}

	var precursor *PrecursorError
	if errors.As(err, &precursor) {
		return precursor.Error()
	}

	var remote *RemoteFailure
	if errors.As(err, &remote) && remote.Notice != "" {
		return remote.Notice
	}

	return "Something went wrong. Please try again."
}
